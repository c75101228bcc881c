package service

import (
	"context"

	"github.com/call-detail-billing/internal/domain/archive"
)

// ArchiveServiceImpl implements the ArchiveService interface
type ArchiveServiceImpl struct {
	archiveRepo archive.Repository
}

// NewArchiveService creates a new archive service
func NewArchiveService(archiveRepo archive.Repository) ArchiveService {
	return &ArchiveServiceImpl{
		archiveRepo: archiveRepo,
	}
}

// GetArchivedCall retrieves an archived call, returns ErrEntryNotFound if absent
func (s *ArchiveServiceImpl) GetArchivedCall(ctx context.Context, callID int64) (*archive.Entry, error) {
	return s.archiveRepo.GetByCallID(ctx, callID)
}
