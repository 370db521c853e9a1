// Package store persists chat feedback state in a local SQLite database.
package store

import (
	"database/sql"
	"fmt"

	"github.com/karrtopelka/drill-bot/where"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS reactions (
	chat_id    INTEGER NOT NULL,
	message_id INTEGER NOT NULL,
	user_id    INTEGER NOT NULL,
	kind       TEXT    NOT NULL,
	PRIMARY KEY (chat_id, message_id, user_id)
);

CREATE TABLE IF NOT EXISTS polls (
	id         TEXT PRIMARY KEY,
	chat_id    INTEGER NOT NULL,
	question   TEXT    NOT NULL,
	option_a   TEXT    NOT NULL,
	option_b   TEXT    NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS poll_votes (
	poll_id TEXT    NOT NULL,
	user_id INTEGER NOT NULL,
	choice  INTEGER NOT NULL,
	PRIMARY KEY (poll_id, user_id)
);
`

// Reaction kinds accepted by React.
const (
	Like    = "like"
	Dislike = "dislike"
)

// Store wraps the SQLite handle used for reactions and poll votes.
type Store struct {
	db *sql.DB
}

// Open creates the database at the given path and applies the schema.
// An empty path resolves to the localized application database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = where.Database()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// React records a single user's reaction to a message. A repeated
// reaction of the same kind withdraws it, a different kind replaces it.
// Returns true when a reaction remains stored after the call.
func (s *Store) React(chatID int64, messageID int, userID int64, kind string) (bool, error) {
	if kind != Like && kind != Dislike {
		return false, fmt.Errorf("unknown reaction kind %q", kind)
	}

	var current string
	err := s.db.QueryRow(
		`SELECT kind FROM reactions WHERE chat_id = ? AND message_id = ? AND user_id = ?`,
		chatID, messageID, userID,
	).Scan(&current)

	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(
			`INSERT INTO reactions (chat_id, message_id, user_id, kind) VALUES (?, ?, ?, ?)`,
			chatID, messageID, userID, kind,
		)
		return err == nil, err
	case err != nil:
		return false, err
	case current == kind:
		_, err = s.db.Exec(
			`DELETE FROM reactions WHERE chat_id = ? AND message_id = ? AND user_id = ?`,
			chatID, messageID, userID,
		)
		return false, err
	default:
		_, err = s.db.Exec(
			`UPDATE reactions SET kind = ? WHERE chat_id = ? AND message_id = ? AND user_id = ?`,
			kind, chatID, messageID, userID,
		)
		return err == nil, err
	}
}

// Counts reports how many likes and dislikes a message has accumulated.
func (s *Store) Counts(chatID int64, messageID int) (likes, dislikes int, err error) {
	rows, err := s.db.Query(
		`SELECT kind, COUNT(*) FROM reactions WHERE chat_id = ? AND message_id = ? GROUP BY kind`,
		chatID, messageID,
	)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var n int
		if err = rows.Scan(&kind, &n); err != nil {
			return 0, 0, err
		}

		switch kind {
		case Like:
			likes = n
		case Dislike:
			dislikes = n
		}
	}

	return likes, dislikes, rows.Err()
}

// SavePoll registers a generated poll so later votes can be attributed.
func (s *Store) SavePoll(id string, chatID int64, question, optionA, optionB string) error {
	_, err := s.db.Exec(
		`INSERT INTO polls (id, chat_id, question, option_a, option_b) VALUES (?, ?, ?, ?, ?)`,
		id, chatID, question, optionA, optionB,
	)
	return err
}

// Vote records a user's poll choice, replacing any earlier one.
func (s *Store) Vote(pollID string, userID int64, choice int) error {
	if choice != 0 && choice != 1 {
		return fmt.Errorf("poll choice out of range: %d", choice)
	}

	_, err := s.db.Exec(
		`INSERT INTO poll_votes (poll_id, user_id, choice) VALUES (?, ?, ?)
		 ON CONFLICT (poll_id, user_id) DO UPDATE SET choice = excluded.choice`,
		pollID, userID, choice,
	)
	return err
}

// Tally reports the vote counts for each poll option.
func (s *Store) Tally(pollID string) (a, b int, err error) {
	rows, err := s.db.Query(
		`SELECT choice, COUNT(*) FROM poll_votes WHERE poll_id = ? GROUP BY choice`,
		pollID,
	)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var choice, n int
		if err = rows.Scan(&choice, &n); err != nil {
			return 0, 0, err
		}

		switch choice {
		case 0:
			a = n
		case 1:
			b = n
		}
	}

	return a, b, rows.Err()
}
