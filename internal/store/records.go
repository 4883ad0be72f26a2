package store

import "fmt"

// Get returns the value stored under key. A missing key surfaces as a
// wrapped sql.ErrNoRows; callers that treat missing and broken storage
// the same can ignore the distinction.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get record %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO records (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM records WHERE key = ?`, key)
	return err
}
