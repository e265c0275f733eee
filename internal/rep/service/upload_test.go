package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"territory/internal/audit"
	"territory/internal/auth"
	"territory/internal/rep/store"
)

type RepUploadSuite struct {
	suite.Suite
	store   *store.InMemory
	trail   *audit.InMemoryStore
	service *Service
	ctx     context.Context
	session auth.Session
}

func TestRepUploadSuite(t *testing.T) {
	suite.Run(t, new(RepUploadSuite))
}

func (s *RepUploadSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.store = store.NewInMemory()
	s.trail = audit.NewInMemoryStore()
	s.service = New(s.store, audit.NewRecorder(s.trail, logger), nil, logger)
	s.ctx = context.Background()
	s.session = auth.Session{UserID: "u-1", Username: "admin", FullName: "Admin User"}
}

func (s *RepUploadSuite) row(first, last, email, channel string) UploadRow {
	return UploadRow{FirstName: first, LastName: last, Email: email, Channel: channel}
}

func (s *RepUploadSuite) TestCreatesNewReps() {
	result, err := s.service.Upload(s.ctx, s.session, []UploadRow{
		s.row("Jane", "Doe", "jane@example.com", "Golf"),
		s.row("John", "Smith", "john@example.com", "Promo"),
	})
	s.Require().NoError(err)
	s.Equal(2, result.Created)
	s.Equal(0, result.Updated)
	s.Empty(result.Errors)

	reps, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(reps, 2)
}

func (s *RepUploadSuite) TestUpdatesExistingByEmail() {
	_, err := s.service.Upload(s.ctx, s.session, []UploadRow{
		s.row("Jane", "Doe", "jane@example.com", "Golf"),
	})
	s.Require().NoError(err)

	result, err := s.service.Upload(s.ctx, s.session, []UploadRow{
		s.row("Janet", "Doe", "JANE@example.com", "Promo"),
	})
	s.Require().NoError(err)
	s.Equal(0, result.Created)
	s.Equal(1, result.Updated)

	reps, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(reps, 1)
	s.Equal("Janet", reps[0].FirstName)
	s.Equal("Promo", string(reps[0].Channel))
}

func (s *RepUploadSuite) TestRowErrorsUseSourceRowNumbers() {
	result, err := s.service.Upload(s.ctx, s.session, []UploadRow{
		s.row("", "Doe", "a@example.com", "Golf"),
		s.row("Jane", "Doe", "not-an-email", "Golf"),
		s.row("Jane", "Doe", "b@example.com", "Retail"),
		s.row("Ok", "Row", "ok@example.com", "Gift"),
	})
	s.Require().NoError(err)
	s.Equal(1, result.Created)
	s.Require().Len(result.Errors, 3)

	// Data rows are numbered from 2: row 1 is the header.
	s.Equal(2, result.Errors[0].Row)
	s.Equal("Missing first_name", result.Errors[0].Message)
	s.Equal(3, result.Errors[1].Row)
	s.Contains(result.Errors[1].Message, "Invalid email")
	s.Equal(4, result.Errors[2].Row)
	s.Contains(result.Errors[2].Message, "Invalid channel")
}

func (s *RepUploadSuite) TestDuplicateEmailWithinBatch() {
	result, err := s.service.Upload(s.ctx, s.session, []UploadRow{
		s.row("First", "Claim", "same@example.com", "Golf"),
		s.row("Second", "Claim", "same@example.com", "Promo"),
	})
	s.Require().NoError(err)

	// The first row wins the email; the second is routed to the update stage
	// where it can't match a stored rep.
	s.Equal(1, result.Created)
	s.Equal(0, result.Updated)
	s.Require().Len(result.Errors, 1)
	s.Equal(0, result.Errors[0].Row)
	s.Contains(result.Errors[0].Message, "Failed to update same@example.com")
}

func (s *RepUploadSuite) TestAuditEntryOnlyWhenSomethingChanged() {
	_, err := s.service.Upload(s.ctx, s.session, []UploadRow{
		s.row("", "", "", ""),
	})
	s.Require().NoError(err)
	s.Empty(s.trail.Entries())

	_, err = s.service.Upload(s.ctx, s.session, []UploadRow{
		s.row("Jane", "Doe", "jane@example.com", "Golf"),
	})
	s.Require().NoError(err)

	entries := s.trail.Entries()
	s.Require().Len(entries, 1)
	s.Equal(audit.ActionBulkUpload, entries[0].Action)
	s.Contains(entries[0].Description, "1 created, 0 updated, 0 errors")
}
