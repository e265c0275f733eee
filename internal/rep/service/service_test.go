package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"territory/internal/audit"
	"territory/internal/auth"
	"territory/internal/rep/models"
	"territory/internal/rep/store"
	"territory/pkg/apperrors"
)

type RepServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	trail   *audit.InMemoryStore
	service *Service
	ctx     context.Context
	session auth.Session
}

func TestRepServiceSuite(t *testing.T) {
	suite.Run(t, new(RepServiceSuite))
}

func (s *RepServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.store = store.NewInMemory()
	s.trail = audit.NewInMemoryStore()
	s.service = New(s.store, audit.NewRecorder(s.trail, logger), nil, logger)
	s.ctx = context.Background()
	s.session = auth.Session{UserID: "u-1", Username: "admin", FullName: "Admin User"}
}

func (s *RepServiceSuite) TestCreate() {
	s.Run("normalizes fields and records audit entry", func() {
		rep, err := s.service.Create(s.ctx, s.session, Input{
			FirstName: "  Jane ",
			LastName:  " Doe ",
			Email:     " Jane@Example.COM ",
			Phone:     "4045551234",
			Channel:   "Golf",
		})
		s.Require().NoError(err)
		s.Equal("jane@example.com", rep.Email)
		s.Equal(models.ChannelGolf, rep.Channel)
		s.Require().NotNil(rep.Phone)

		entries := s.trail.Entries()
		s.Require().Len(entries, 1)
		s.Equal(audit.ActionCreate, entries[0].Action)
		s.Equal(audit.TableReps, entries[0].TableName)
		s.Contains(entries[0].Description, "Jane Doe")
	})

	s.Run("missing fields rejected", func() {
		_, err := s.service.Create(s.ctx, s.session, Input{FirstName: "Only"})
		s.Require().Error(err)
		s.Equal(apperrors.CodeBadRequest, apperrors.CodeOf(err))
	})

	s.Run("invalid channel rejected", func() {
		_, err := s.service.Create(s.ctx, s.session, Input{
			FirstName: "A", LastName: "B", Email: "a@b.com", Channel: "Retail",
		})
		s.Require().Error(err)
		s.Contains(err.Error(), "Invalid channel")
	})

	s.Run("duplicate email maps to conflict", func() {
		in := Input{FirstName: "A", LastName: "B", Email: "dup@b.com", Channel: "Promo"}
		_, err := s.service.Create(s.ctx, s.session, in)
		s.Require().NoError(err)

		_, err = s.service.Create(s.ctx, s.session, in)
		s.Require().Error(err)
		s.Equal(apperrors.CodeConflict, apperrors.CodeOf(err))
		s.Contains(err.Error(), "A rep with this email already exists")
	})
}

func (s *RepServiceSuite) TestUpdate() {
	rep, err := s.service.Create(s.ctx, s.session, Input{
		FirstName: "Old", LastName: "Name", Email: "old@b.com", Channel: "Gift",
	})
	s.Require().NoError(err)

	s.Run("updates in place", func() {
		updated, err := s.service.Update(s.ctx, s.session, rep.ID, Input{
			FirstName: "New", LastName: "Name", Email: "old@b.com", Channel: "Gift",
		})
		s.Require().NoError(err)
		s.Equal("New", updated.FirstName)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.service.Update(s.ctx, s.session, uuid.New(), Input{
			FirstName: "A", LastName: "B", Email: "x@b.com", Channel: "Golf",
		})
		s.Require().Error(err)
		s.Equal(apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}

func (s *RepServiceSuite) TestDelete() {
	rep, err := s.service.Create(s.ctx, s.session, Input{
		FirstName: "Del", LastName: "Me", Email: "del@b.com", Channel: "Golf",
	})
	s.Require().NoError(err)

	s.Run("deletes and records audit entry", func() {
		s.Require().NoError(s.service.Delete(s.ctx, s.session, rep.ID))

		entries := s.trail.Entries()
		last := entries[len(entries)-1]
		s.Equal(audit.ActionDelete, last.Action)
		s.Contains(last.Description, "del@b.com")
	})

	s.Run("second delete is not found", func() {
		err := s.service.Delete(s.ctx, s.session, rep.ID)
		s.Require().Error(err)
		s.Equal(apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}

func (s *RepServiceSuite) TestGet() {
	_, err := s.service.Get(s.ctx, uuid.New())
	s.Require().Error(err)
	s.Equal(apperrors.CodeNotFound, apperrors.CodeOf(err))
}
