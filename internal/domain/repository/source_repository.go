package repository

import "context"

// SourceRepository отдаёт сырые байты документа по его расположению:
// локальный путь, http(s) URL или s3://bucket/key
type SourceRepository interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// RemoteRepository - загрузка документа по HTTP
type RemoteRepository interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// ObjectRepository - загрузка объекта из S3-совместимого хранилища
type ObjectRepository interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}
