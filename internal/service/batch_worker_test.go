package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coursepilot/internal/domain"
	"coursepilot/internal/service"
	"coursepilot/mocks"
)

func TestBatchWorker_PreservesOrder(t *testing.T) {
	svc := new(mocks.MockSyllabusService)
	docs := []domain.RawDocument{{FileName: "a.pdf"}, {FileName: "b.docx"}, {FileName: "c.png"}}
	for _, d := range docs {
		name := d.FileName
		svc.On("HandleUpload", mock.Anything, mock.MatchedBy(func(doc domain.RawDocument) bool { return doc.FileName == name })).
			Return(&service.UploadResult{Syllabus: &domain.ParsedSyllabus{Course: domain.Course{Name: name}}}, nil)
	}

	items := service.NewBatchWorker(svc, service.BatchConfig{Concurrency: 2}, nil).Run(context.Background(), docs)

	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, docs[i].FileName, item.FileName)
		require.NoError(t, item.Err)
		assert.Equal(t, docs[i].FileName, item.Result.Syllabus.Course.Name)
	}
}

func TestBatchWorker_ReportsErrorsPerDocument(t *testing.T) {
	svc := new(mocks.MockSyllabusService)
	svc.On("HandleUpload", mock.Anything, mock.MatchedBy(func(doc domain.RawDocument) bool { return doc.FileName == "bad.zip" })).
		Return(&service.UploadResult{State: domain.UploadStateError}, domain.ErrUnsupportedType)
	svc.On("HandleUpload", mock.Anything, mock.MatchedBy(func(doc domain.RawDocument) bool { return doc.FileName == "ok.pdf" })).
		Return(&service.UploadResult{State: domain.UploadStateSuccess}, nil)

	items := service.NewBatchWorker(svc, service.BatchConfig{}, nil).Run(context.Background(), []domain.RawDocument{
		{FileName: "bad.zip"}, {FileName: "ok.pdf"},
	})

	assert.ErrorIs(t, items[0].Err, domain.ErrUnsupportedType)
	assert.NoError(t, items[1].Err)
}

// countingService tracks how many uploads run at once.
type countingService struct {
	active, peak atomic.Int32
}

func (s *countingService) HandleUpload(ctx context.Context, _ domain.RawDocument) (*service.UploadResult, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-time.After(20 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &service.UploadResult{}, nil
}

func (s *countingService) ParseText(context.Context, string) (*domain.ParsedSyllabus, domain.ParseSource) {
	return &domain.ParsedSyllabus{}, domain.ParseSourceHeuristic
}

func TestBatchWorker_BoundsConcurrency(t *testing.T) {
	svc := &countingService{}
	docs := make([]domain.RawDocument, 8)

	items := service.NewBatchWorker(svc, service.BatchConfig{Concurrency: 3}, nil).Run(context.Background(), docs)

	assert.Len(t, items, 8)
	assert.LessOrEqual(t, svc.peak.Load(), int32(3))
}

func TestBatchWorker_PerDocumentTimeout(t *testing.T) {
	svc := &countingService{}

	items := service.NewBatchWorker(svc, service.BatchConfig{PerDocumentTimeout: time.Millisecond}, nil).
		Run(context.Background(), []domain.RawDocument{{FileName: "slow.png"}})

	assert.True(t, errors.Is(items[0].Err, context.DeadlineExceeded))
}

func TestBatchWorker_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := service.NewBatchWorker(&countingService{}, service.BatchConfig{Concurrency: 1}, nil).
		Run(ctx, []domain.RawDocument{{FileName: "a"}, {FileName: "b"}})

	for _, item := range items {
		assert.ErrorIs(t, item.Err, context.Canceled)
	}
}
