package models

const StorageVersion = 1

// Storage is the backup envelope written by the file manager.
type Storage struct {
	Version   int            `json:"version"`
	Items     []Item         `json:"items"`
	Snapshots []Snapshot     `json:"snapshots"`
	Summaries []DailySummary `json:"summaries"`
}

func (s *Storage) Empty() bool {
	return len(s.Items) == 0 && len(s.Snapshots) == 0 && len(s.Summaries) == 0
}
