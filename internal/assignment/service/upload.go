package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"territory/internal/assignment/models"
	"territory/internal/audit"
	"territory/internal/auth"
	"territory/internal/upload"
	"territory/pkg/apperrors"
	"territory/pkg/validate"
)

// UploadRow is one raw data row from a territory CSV upload. The channel is
// not part of the input; it is derived from the matched rep.
type UploadRow struct {
	Zip      string `json:"zip"`
	RepEmail string `json:"rep_email"`
}

// UploadResult summarizes one territory reconciliation run.
type UploadResult struct {
	Success int               `json:"success"`
	Errors  []upload.RowError `json:"errors"`
}

// Upload reconciles territory rows against the roster. Rows that fail
// validation or reference an unknown rep are rejected individually; every
// accepted row becomes a candidate assignment carrying the rep's own channel,
// and the candidates are written in one all-or-nothing upsert.
func (s *Service) Upload(ctx context.Context, session auth.Session, rows []UploadRow) (*UploadResult, error) {
	reps, err := s.reps.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch reps for territory upload", "error", err)
		return nil, apperrors.New(apperrors.CodeInternal, "Failed to fetch reps")
	}
	index := buildEmailIndex(reps)

	result := &UploadResult{Errors: []upload.RowError{}}
	var candidates []*models.Assignment

	for i, row := range rows {
		rowNum := upload.RowNumber(i)

		zip := strings.TrimSpace(row.Zip)
		email := strings.TrimSpace(row.RepEmail)
		if zip == "" || email == "" {
			result.Errors = append(result.Errors, upload.RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("Missing required fields (zip: %s, rep_email: %s)", orMissing(zip), orMissing(email)),
			})
			continue
		}

		if !validate.ZipCode(zip) {
			result.Errors = append(result.Errors, upload.RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("Invalid zip code format %q (must be 5 digits)", zip),
			})
			continue
		}

		ref, ok := index[strings.ToLower(email)]
		if !ok {
			result.Errors = append(result.Errors, upload.RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("Rep not found with email %q", row.RepEmail),
			})
			continue
		}

		candidates = append(candidates, &models.Assignment{
			ID:      uuid.New(),
			ZipCode: zip,
			Channel: ref.channel,
			RepID:   ref.id,
		})
	}
	candidates = dedupeLastWins(candidates)

	if len(candidates) > 0 {
		if err := s.assignments.BulkUpsert(ctx, candidates); err != nil {
			s.logger.ErrorContext(ctx, "failed to bulk upsert assignments", "error", err)
			return nil, apperrors.New(apperrors.CodeInternal, "Failed to save assignments")
		}
		result.Success = len(candidates)
	}

	s.metrics.CountUploadRows("territory", "accepted", result.Success)
	s.metrics.CountUploadRows("territory", "rejected", len(result.Errors))

	if result.Success > 0 {
		s.recorder.Record(ctx, session, audit.ActionBulkUpload, audit.TableAssignments, nil,
			fmt.Sprintf("Bulk upload: %d assignments saved, %d errors", result.Success, len(result.Errors)))
	}
	return result, nil
}

// dedupeLastWins collapses rows targeting the same (zip, channel) pair to the
// last occurrence. A multi-row upsert cannot touch the same row twice, so the
// collapse has to happen before the write.
func dedupeLastWins(candidates []*models.Assignment) []*models.Assignment {
	if len(candidates) < 2 {
		return candidates
	}
	index := make(map[string]int, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		k := c.ZipCode + "|" + string(c.Channel)
		if i, ok := index[k]; ok {
			out[i] = c
			continue
		}
		index[k] = len(out)
		out = append(out, c)
	}
	return out
}

func orMissing(s string) string {
	if s == "" {
		return "missing"
	}
	return s
}
