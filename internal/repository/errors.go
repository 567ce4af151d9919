package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrShortCodeTaken is returned by Create when another link already owns the code
	ErrShortCodeTaken = errors.New("short code already exists")
	// ErrTargetURLTaken is returned by Create when the target URL is already shortened
	ErrTargetURLTaken = errors.New("target url already exists")
)

const uniqueViolation = "23505"

const (
	shortCodeConstraint = "links_short_code_key"
	targetURLConstraint = "links_target_url_key"
)

// classifyInsertError maps unique-constraint violations on links to the sentinel errors
func classifyInsertError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return nil
	}
	switch pqErr.Constraint {
	case shortCodeConstraint:
		return ErrShortCodeTaken
	case targetURLConstraint:
		return ErrTargetURLTaken
	}
	return nil
}
