package storage

import "context"

// UploadResult описывает сохранённый объект.
type UploadResult struct {
	Key      string
	Location string // пусто, если публичный адрес бакета не задан
	ETag     string
	Size     int64
}

// ObjectWriter пишет готовые документы в хранилище, совместимое с S3.
type ObjectWriter interface {
	Upload(ctx context.Context, key string, contentType string, body []byte) (*UploadResult, error)
	GetPublicURL(key string) string
}
