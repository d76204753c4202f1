package cloudwriter

import "context"

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(ctx context.Context, bucket, objectPath string) (CloudWriter, error)
}

type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, objectPath string) ([]byte, error)
}
