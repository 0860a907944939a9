package database

// GameRecord is one persisted game result row.
type GameRecord struct {
	ID           string    `json:"id"`
	CreatedAt    string    `json:"created_at"`
	PlayerNames  [3]string `json:"player_names"`
	PlayerScores [3]int    `json:"player_scores"`
	Landlord     string    `json:"landlord"`
	Winner       string    `json:"winner"`
	Result       string    `json:"result"`
	Rounds       int       `json:"rounds"`
}
