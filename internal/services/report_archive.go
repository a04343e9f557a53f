package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReportArchive складывает JSON-отчёты клиринговых циклов в объектное
// хранилище. Без эндпоинта архив отключён и все операции — no-op.
type ReportArchive struct {
	client *minio.Client
	bucket string
}

// NewReportArchive создаёт архив отчётов. Пустой endpoint отключает архив.
func NewReportArchive(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ReportArchive, error) {
	if endpoint == "" {
		return &ReportArchive{}, nil
	}
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &ReportArchive{client: cli, bucket: bucket}, nil
}

// Enabled сообщает, настроено ли хранилище.
func (a *ReportArchive) Enabled() bool {
	return a != nil && a.client != nil
}

// Store сохраняет отчёт цикла и возвращает имя объекта.
func (a *ReportArchive) Store(ctx context.Context, cycleID string, startedAt time.Time, report any) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	object := fmt.Sprintf("cycles/%s/%s.json", startedAt.UTC().Format("2006-01-02"), cycleID)
	_, err = a.client.PutObject(ctx, a.bucket, object, bytes.NewReader(b), int64(len(b)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", err
	}
	return object, nil
}

// ReportURL генерирует временный URL для сохранённого отчёта.
func (a *ReportArchive) ReportURL(ctx context.Context, object string, expiry time.Duration) (string, error) {
	if !a.Enabled() || object == "" {
		return "", nil
	}
	u, err := a.client.PresignedGetObject(ctx, a.bucket, object, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
