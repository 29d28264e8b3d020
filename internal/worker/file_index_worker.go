package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/repository"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/tenant"
)

// FileIndexWorker drains upload batches off the queue and runs the slow part
// of the workflow: push bytes to the vector store, wait for indexing, mirror
// the server-assigned identifiers, reattach the store to the assistant. One
// file failing does not sink its batch; the row is marked failed and the rest
// proceed.
type FileIndexWorker struct {
	conn              *amqp.Connection
	queueName         string
	fileRepo          *repository.FileRepository
	assistantFileRepo *repository.AssistantFileRepository
	resolver          *tenant.Resolver
	api               app.AssistantAPI
	uploadsDir        string
	perFileTimeout    time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewFileIndexWorker(
	conn *amqp.Connection,
	queueName string,
	fileRepo *repository.FileRepository,
	assistantFileRepo *repository.AssistantFileRepository,
	resolver *tenant.Resolver,
	api app.AssistantAPI,
	uploadsDir string,
	perFileTimeout time.Duration,
) *FileIndexWorker {
	if perFileTimeout <= 0 {
		perFileTimeout = 5 * time.Minute
	}
	return &FileIndexWorker{
		conn:              conn,
		queueName:         queueName,
		fileRepo:          fileRepo,
		assistantFileRepo: assistantFileRepo,
		resolver:          resolver,
		api:               api,
		uploadsDir:        uploadsDir,
		perFileTimeout:    perFileTimeout,
	}
}

func (w *FileIndexWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var job app.IndexJob
				if err := json.Unmarshal(d.Body, &job); err != nil {
					log.Printf("worker decode index job failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				w.process(workerCtx, job)
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *FileIndexWorker) process(ctx context.Context, job app.IndexJob) {
	credential, err := w.resolver.ResolveCredential(job.Group)
	if err != nil {
		log.Printf("index batch %s: %v", job.BatchID, err)
		w.failBatch(job, "no api credential for group")
		return
	}

	indexed := 0
	for _, jobFile := range job.Files {
		if err := w.indexOne(ctx, credential, job, jobFile); err != nil {
			log.Printf("index batch %s file %q failed: %v", job.BatchID, jobFile.Name, err)
			_ = w.fileRepo.MarkFailed(jobFile.FileRowID, err.Error())
			continue
		}
		indexed++
	}

	if indexed > 0 {
		callCtx, cancel := context.WithTimeout(ctx, w.perFileTimeout)
		defer cancel()
		if err := w.api.AttachVectorStore(callCtx, credential, job.AsstID, job.VectorStoreID); err != nil {
			// Files are indexed but retrieval is not wired up yet; the next
			// successful batch repairs this.
			log.Printf("INCONSISTENT: batch %s indexed but store %s not attached to %s: %v",
				job.BatchID, job.VectorStoreID, job.AsstID, err)
		}
	}
	log.Printf("index batch %s done: %d/%d files indexed", job.BatchID, indexed, len(job.Files))
}

func (w *FileIndexWorker) indexOne(ctx context.Context, credential string, job app.IndexJob, jobFile app.IndexJobFile) error {
	data, err := os.ReadFile(filepath.Join(w.uploadsDir, jobFile.DiskName))
	if err != nil {
		return fmt.Errorf("read upload from disk failed: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, w.perFileTimeout)
	defer cancel()

	fileID, err := w.api.UploadFile(callCtx, credential, jobFile.Name, data)
	if err != nil {
		return err
	}
	vsFileID, err := w.api.AttachFileToVectorStore(callCtx, credential, job.VectorStoreID, fileID)
	if err != nil {
		return err
	}
	if err := w.api.WaitForFileIndexed(callCtx, credential, job.VectorStoreID, vsFileID); err != nil {
		return err
	}

	if err := w.fileRepo.MarkIndexed(jobFile.FileRowID, vsFileID); err != nil {
		return err
	}
	return w.assistantFileRepo.Create(&model.AssistantFile{
		AssistantID:       job.AssistantID,
		FileID:            jobFile.FileRowID,
		Name:              jobFile.Name,
		VectorStoreID:     job.VectorStoreID,
		VectorStoreFileID: vsFileID,
	})
}

func (w *FileIndexWorker) failBatch(job app.IndexJob, reason string) {
	for _, jobFile := range job.Files {
		_ = w.fileRepo.MarkFailed(jobFile.FileRowID, reason)
	}
}

func (w *FileIndexWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
