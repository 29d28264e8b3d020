package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/pkg/fileutil"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/tenant"
)

var (
	ErrFileNotFound  = errors.New("file not found")
	ErrBatchNotFound = errors.New("upload batch not found")
	ErrNoFiles       = errors.New("no files in upload")
	ErrFileEnqueue   = errors.New("file index job enqueue failed")
)

// JobPublisher enqueues background jobs for the index worker.
type JobPublisher interface {
	Publish(ctx context.Context, job any) error
}

// IndexJob is the payload handed to the file index worker. It names every
// file row by id, so server-assigned identifiers are correlated exactly and
// concurrent uploads to the same store cannot cross wires.
type IndexJob struct {
	BatchID       string         `json:"batch_id"`
	AsstID        string         `json:"asst_id"`
	AssistantID   uint           `json:"assistant_id"`
	Group         string         `json:"group"`
	VectorStoreID string         `json:"vector_store_id"`
	Files         []IndexJobFile `json:"files"`
}

type IndexJobFile struct {
	FileRowID uint   `json:"file_row_id"`
	Name      string `json:"name"`
	DiskName  string `json:"disk_name"`
}

type UploadItem struct {
	Name string
	Data []byte
}

type UploadResult struct {
	BatchID string       `json:"batch_id"`
	Files   []model.File `json:"files"`
}

// FileService runs the upload side of the indexing workflow: it persists the
// bytes, records pending rows, and hands the slow vector-store work to the
// worker. The request returns as soon as the job is durable.
type FileService struct {
	fileRepo          *repository.FileRepository
	assistantFileRepo *repository.AssistantFileRepository
	assistantRepo     *repository.AssistantRepository
	resolver          *tenant.Resolver
	api               AssistantAPI
	publisher         JobPublisher
	uploadsDir        string
	callTimeout       time.Duration
}

func NewFileService(
	fileRepo *repository.FileRepository,
	assistantFileRepo *repository.AssistantFileRepository,
	assistantRepo *repository.AssistantRepository,
	resolver *tenant.Resolver,
	api AssistantAPI,
	publisher JobPublisher,
	uploadsDir string,
	callTimeout time.Duration,
) *FileService {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &FileService{
		fileRepo:          fileRepo,
		assistantFileRepo: assistantFileRepo,
		assistantRepo:     assistantRepo,
		resolver:          resolver,
		api:               api,
		publisher:         publisher,
		uploadsDir:        uploadsDir,
		callTimeout:       callTimeout,
	}
}

// Upload accepts a batch for an assistant. The vector store is created lazily
// on the first upload and reused afterwards.
func (s *FileService) Upload(ctx context.Context, asstID string, items []UploadItem) (*UploadResult, error) {
	if len(items) == 0 {
		return nil, ErrNoFiles
	}

	assistant, err := s.assistantRepo.GetByAsstID(asstID)
	if err != nil {
		return nil, err
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}

	group, err := s.assistantRepo.OwnerGroup(asstID)
	if err != nil {
		return nil, err
	}
	credential, err := s.resolver.ResolveCredential(group)
	if err != nil {
		return nil, err
	}

	storeID := assistant.VectorStoreID
	if storeID == "" {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
		storeID, err = s.api.CreateVectorStore(callCtx, credential, "avatar-"+asstID)
		if err != nil {
			return nil, err
		}
		if err := s.assistantRepo.SetVectorStoreID(asstID, storeID); err != nil {
			// The store exists remotely but is unrecorded; the next upload
			// would create a second one.
			log.Printf("INCONSISTENT: vector store %s created for %s but not recorded: %v", storeID, asstID, err)
			return nil, fmt.Errorf("%w: vector store %s unrecorded", ErrInconsistentState, storeID)
		}
	}

	batchID := uuid.NewString()
	rows := make([]model.File, 0, len(items))
	jobFiles := make([]IndexJobFile, 0, len(items))
	written := make([]string, 0, len(items))
	for _, item := range items {
		safeName, err := fileutil.SanitizeName(item.Name)
		if err != nil {
			s.removeWritten(written)
			return nil, fmt.Errorf("%w: %q", ErrInvalidInput, item.Name)
		}
		diskName := batchID[:8] + "_" + safeName
		path := filepath.Join(s.uploadsDir, diskName)
		if err := os.WriteFile(path, item.Data, 0o644); err != nil {
			s.removeWritten(written)
			return nil, fmt.Errorf("store upload failed: %w", err)
		}
		written = append(written, path)
		rows = append(rows, model.File{
			AssistantID: assistant.ID,
			Name:        safeName,
			Size:        int64(len(item.Data)),
			DiskName:    diskName,
			BatchID:     batchID,
			Status:      model.FileStatusPending,
		})
	}
	if err := s.fileRepo.CreateBatch(rows); err != nil {
		s.removeWritten(written)
		return nil, err
	}
	for _, row := range rows {
		jobFiles = append(jobFiles, IndexJobFile{
			FileRowID: row.ID,
			Name:      row.Name,
			DiskName:  row.DiskName,
		})
	}

	job := IndexJob{
		BatchID:       batchID,
		AsstID:        asstID,
		AssistantID:   assistant.ID,
		Group:         group,
		VectorStoreID: storeID,
		Files:         jobFiles,
	}
	if err := s.publisher.Publish(ctx, job); err != nil {
		for _, row := range rows {
			_ = s.fileRepo.MarkFailed(row.ID, "index job enqueue failed")
		}
		s.removeWritten(written)
		return nil, ErrFileEnqueue
	}

	return &UploadResult{BatchID: batchID, Files: rows}, nil
}

// removeWritten clears disk copies left by an upload that failed before its
// index job became durable. Nothing references the bytes afterwards: the rows
// either never existed or are marked failed.
func (s *FileService) removeWritten(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove orphaned upload %s failed: %v", path, err)
		}
	}
}

func (s *FileService) UploadStatus(batchID string) ([]model.File, error) {
	files, err := s.fileRepo.ListByBatchID(batchID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrBatchNotFound
	}
	return files, nil
}

func (s *FileService) ListByAsstID(asstID string) ([]model.File, error) {
	assistant, err := s.assistantRepo.GetByAsstID(asstID)
	if err != nil {
		return nil, err
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}
	return s.fileRepo.ListByAssistantID(assistant.ID)
}

func (s *FileService) ListIndexed(asstID string) ([]model.AssistantFile, error) {
	assistant, err := s.assistantRepo.GetByAsstID(asstID)
	if err != nil {
		return nil, err
	}
	if assistant == nil {
		return nil, ErrAssistantNotFound
	}
	return s.assistantFileRepo.ListByAssistantID(assistant.ID)
}

// Delete removes the remote vector-store entry, the local disk copy if one is
// still around, and the metadata rows. A repeat call finds no row and reports
// not-found.
func (s *FileService) Delete(ctx context.Context, fileID uint) error {
	file, err := s.fileRepo.GetByID(fileID)
	if err != nil {
		return err
	}
	if file == nil {
		return ErrFileNotFound
	}

	if file.VectorStoreFileID != "" {
		group, err := s.assistantRepo.OwnerGroupByID(file.AssistantID)
		if err != nil {
			return err
		}
		credential, err := s.resolver.ResolveCredential(group)
		if err != nil {
			return err
		}
		storeID, err := s.assistantRepo.VectorStoreIDByID(file.AssistantID)
		if err != nil {
			return err
		}
		if storeID != "" {
			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			defer cancel()
			if err := s.api.DeleteVectorStoreFile(callCtx, credential, storeID, file.VectorStoreFileID); err != nil {
				return err
			}
		}
	}

	if file.DiskName != "" {
		if err := os.Remove(filepath.Join(s.uploadsDir, file.DiskName)); err != nil && !os.IsNotExist(err) {
			log.Printf("INCONSISTENT: remote entry for file %d deleted, disk copy remains: %v", fileID, err)
		}
	}

	if err := s.assistantFileRepo.DeleteByFileID(fileID); err != nil {
		return fmt.Errorf("%w: remote entry for file %d deleted, local rows remain: %v", ErrInconsistentState, fileID, err)
	}
	deleted, err := s.fileRepo.Delete(fileID)
	if err != nil {
		return fmt.Errorf("%w: remote entry for file %d deleted, metadata row remains: %v", ErrInconsistentState, fileID, err)
	}
	if !deleted {
		return ErrFileNotFound
	}
	return nil
}

// ResolveDownloadPath maps a requested name to a path inside the uploads
// directory, rejecting traversal attempts.
func (s *FileService) ResolveDownloadPath(name string) (string, error) {
	safeName, err := fileutil.SanitizeName(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	path := filepath.Join(s.uploadsDir, safeName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrFileNotFound
		}
		return "", fmt.Errorf("stat download failed: %w", err)
	}
	return path, nil
}
