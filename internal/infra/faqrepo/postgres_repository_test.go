package faqrepo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestIsNoRowsMatchesWrappedErrors(t *testing.T) {
	if !isNoRows(pgx.ErrNoRows) {
		t.Fatal("bare pgx.ErrNoRows must match")
	}
	if !isNoRows(fmt.Errorf("scan answer: %w", pgx.ErrNoRows)) {
		t.Fatal("wrapped pgx.ErrNoRows must match")
	}
	if isNoRows(errors.New("connection refused")) {
		t.Fatal("unrelated errors must not match")
	}
	if isNoRows(nil) {
		t.Fatal("nil must not match")
	}
}
