package database

import (
	"database/sql"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
)

// Service wraps the result store. Access is serialized with a mutex; game
// goroutines insert concurrently with API reads.
type Service struct {
	db        *sql.DB
	m         *sync.Mutex
	tableName string
}

var tableName = "doudizhu"

// New opens (or creates) the sqlite result store at the given path.
func New(path string) *Service {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		panic(err)
	}

	sqlStmt := `
	create table if not exists doudizhu (
		id string not null primary key,
		created_at string,
		player1 string,
		player2 string,
		player3 string,
		player1_score integer,
		player2_score integer,
		player3_score integer,
		landlord string,
		winner string,
		result string,
		rounds integer
	);
	`
	if _, err = db.Exec(sqlStmt); err != nil {
		panic(err)
	}

	return &Service{
		db:        db,
		tableName: tableName,
		m:         &sync.Mutex{},
	}
}

func (s *Service) Close() error {
	return s.db.Close()
}

func scanRecord(scan func(dest ...any) error) (GameRecord, error) {
	var r GameRecord
	err := scan(
		&r.ID,
		&r.CreatedAt,
		&r.PlayerNames[0],
		&r.PlayerNames[1],
		&r.PlayerNames[2],
		&r.PlayerScores[0],
		&r.PlayerScores[1],
		&r.PlayerScores[2],
		&r.Landlord,
		&r.Winner,
		&r.Result,
		&r.Rounds)
	return r, err
}

// GetAll returns every stored game result.
func (s *Service) GetAll() ([]GameRecord, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT * FROM " + s.tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameRecord
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}

	return results, nil
}

// GetByID returns the stored result for one game.
func (s *Service) GetByID(id string) (GameRecord, error) {
	s.m.Lock()
	defer s.m.Unlock()
	row := s.db.QueryRow("SELECT * FROM "+s.tableName+" WHERE id = ?", id)
	return scanRecord(row.Scan)
}

// Insert stores a finished game.
func (s *Service) Insert(record GameRecord) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec("INSERT INTO "+s.tableName+
		" (id, created_at, player1, player2, player3, player1_score, player2_score, player3_score, landlord, winner, result, rounds)"+
		" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		record.ID,
		record.CreatedAt,
		record.PlayerNames[0],
		record.PlayerNames[1],
		record.PlayerNames[2],
		record.PlayerScores[0],
		record.PlayerScores[1],
		record.PlayerScores[2],
		record.Landlord,
		record.Winner,
		record.Result,
		record.Rounds)
	return err
}

// GetByPlayer returns every stored game a player took part in.
func (s *Service) GetByPlayer(playerName string) ([]GameRecord, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT * FROM "+s.tableName+
		" WHERE player1 = ? OR player2 = ? OR player3 = ?",
		playerName,
		playerName,
		playerName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameRecord
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}

	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}

	return results, nil
}
