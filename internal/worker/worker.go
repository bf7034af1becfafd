package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sdc-club/backend/internal/exports"
	"github.com/sdc-club/backend/internal/models"
	"github.com/sdc-club/backend/internal/notify"
	"github.com/sdc-club/backend/pkg/queue"
	"github.com/sdc-club/backend/pkg/storage"
)

// Source yields jobs and takes back the ones that failed.
type Source interface {
	Dequeue(ctx context.Context) (*queue.Job, string, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// Lister lists every registration.
type Lister interface {
	List(ctx context.Context) ([]models.Registration, error)
}

// ObjectStore receives export files.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

// EmailLog records delivery attempts.
type EmailLog interface {
	Record(ctx context.Context, log *models.EmailLog) error
}

// Processor runs notification and export jobs.
type Processor struct {
	source  Source
	store   Lister
	objects ObjectStore
	mailer  notify.Mailer
	emails  EmailLog
	logger  *zap.Logger
	backoff time.Duration
}

// NewProcessor creates a job processor. objects may be nil, in which case export jobs fail and go to the DLQ.
func NewProcessor(source Source, store Lister, objects ObjectStore, mailer notify.Mailer, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{source: source, store: store, objects: objects, mailer: mailer, logger: logger, backoff: queue.RetryBackoff}
}

// SetEmailLog records every status email attempt in emails.
func (p *Processor) SetEmailLog(emails EmailLog) {
	p.emails = emails
}

// Process executes one job.
func (p *Processor) Process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeStatusNotification:
		var payload queue.StatusNotificationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		return p.notifyStatus(ctx, job, payload)
	case queue.JobTypeExport:
		return p.export(ctx, job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (p *Processor) notifyStatus(ctx context.Context, job *queue.Job, payload queue.StatusNotificationPayload) error {
	if payload.RecipientEmail == "" {
		return fmt.Errorf("registration %s: no recipient", payload.RegistrationID)
	}
	subject, body := notify.StatusEmail(payload.FullName, models.Status(payload.Status))
	sendErr := p.mailer.Send(ctx, payload.RecipientEmail, subject, body)
	p.recordEmail(ctx, job, payload, subject, sendErr)
	if sendErr != nil {
		return sendErr
	}
	p.logger.Info("status notification sent", zap.String("registration_id", payload.RegistrationID), zap.String("status", payload.Status))
	return nil
}

func (p *Processor) recordEmail(ctx context.Context, job *queue.Job, payload queue.StatusNotificationPayload, subject string, sendErr error) {
	if p.emails == nil {
		return
	}
	entry := &models.EmailLog{
		RegistrationID: payload.RegistrationID,
		EmailType:      models.EmailTypeStatusUpdate,
		RecipientEmail: payload.RecipientEmail,
		Subject:        subject,
		Status:         models.EmailLogStatusSent,
		Attempt:        job.Attempt + 1,
	}
	if sendErr != nil {
		entry.Status = models.EmailLogStatusFailed
		entry.ErrorMessage = sendErr.Error()
	} else {
		now := time.Now().UTC()
		entry.SentAt = &now
	}
	if err := p.emails.Record(ctx, entry); err != nil {
		p.logger.Warn("record email log failed", zap.String("registration_id", payload.RegistrationID), zap.Error(err))
	}
}

func (p *Processor) export(ctx context.Context, job *queue.Job) error {
	if p.objects == nil {
		return fmt.Errorf("export %s: object storage not configured", job.ID)
	}
	regs, err := p.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list registrations: %w", err)
	}
	var buf bytes.Buffer
	if err := exports.WriteCSV(&buf, regs); err != nil {
		return err
	}
	key := storage.ExportKey(job.ID, job.CreatedAt)
	if _, err := p.objects.Upload(ctx, key, "text/csv", &buf); err != nil {
		return fmt.Errorf("upload export: %w", err)
	}
	url, err := p.objects.PresignDownload(ctx, key)
	if err != nil {
		return fmt.Errorf("presign export: %w", err)
	}
	p.logger.Info("registration export ready",
		zap.String("job_id", job.ID),
		zap.Int("rows", len(regs)),
		zap.String("key", key),
		zap.String("download_url", url),
	)
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *Processor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("worker stopping")
			return
		default:
		}

		job, _, err := p.source.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if reErr := p.source.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *Processor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
