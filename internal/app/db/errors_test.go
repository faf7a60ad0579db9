package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(pgx.ErrNoRows) {
		t.Fatal("pgx.ErrNoRows not recognized as not-found")
	}
	if !IsNotFound(fmt.Errorf("get cooldown: %w", pgx.ErrNoRows)) {
		t.Fatal("wrapped pgx.ErrNoRows not recognized as not-found")
	}
	if IsNotFound(errors.New("connection refused")) {
		t.Fatal("unrelated error reported as not-found")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	if !IsUniqueViolation(fmt.Errorf("create user: %w", dup)) {
		t.Fatal("wrapped 23505 not recognized as unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign-key violation reported as unique violation")
	}
}

func TestViolatedConstraint(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	if got := ViolatedConstraint(fmt.Errorf("create user: %w", dup)); got != "users_username_key" {
		t.Fatalf("ViolatedConstraint = %q, want users_username_key", got)
	}
	if got := ViolatedConstraint(errors.New("nope")); got != "" {
		t.Fatalf("ViolatedConstraint on plain error = %q, want empty", got)
	}
}
