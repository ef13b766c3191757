package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"codeberg.org/aiam/server/internal/config"
	"github.com/nats-io/nats.go"
)

const contentTypeHeader = "Content-Type"

// JetStream object store for self-hosted deployments; objects are served by the API
type NATSStore struct {
	conn          *nats.Conn
	store         nats.ObjectStore
	bucket        string
	publicBaseURL string
}

func NewNATSStore(cfg config.BlobConfig, publicBaseURL string) (*NATSStore, error) {
	conn, err := nats.Connect(cfg.NATSURL, nats.Name("aiam-blobstore"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	s, err := newNATSStoreFromConn(conn, cfg.NATSBucket, publicBaseURL)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return s, nil
}

func newNATSStoreFromConn(conn *nats.Conn, bucket, publicBaseURL string) (*NATSStore, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to open JetStream context: %w", err)
	}

	// bind first, create when the bucket does not exist yet
	store, err := js.ObjectStore(bucket)
	if errors.Is(err, nats.ErrStreamNotFound) {
		store, err = js.CreateObjectStore(&nats.ObjectStoreConfig{
			Bucket:      bucket,
			Description: fmt.Sprintf("Storage for the %s bucket.", bucket),
			Storage:     nats.FileStorage,
			Replicas:    1,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open object store bucket '%s': %w", bucket, err)
	}

	return &NATSStore{conn: conn, store: store, bucket: bucket, publicBaseURL: publicBaseURL}, nil
}

func (n *NATSStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}

	_, err := n.store.Put(&nats.ObjectMeta{
		Name:    key,
		Headers: nats.Header{contentTypeHeader: []string{contentType}},
	}, bytes.NewReader(data), nats.Context(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to put object '%s' to bucket '%s': %w", key, n.bucket, err)
	}

	return proxyURL(n.publicBaseURL, key), nil
}

func (n *NATSStore) Get(ctx context.Context, key string) (*Object, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}

	obj, err := n.store.Get(key, nats.Context(ctx))
	if errors.Is(err, nats.ErrObjectNotFound) {
		return nil, ErrObjectNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", key, n.bucket, err)
	}

	data, readErr := io.ReadAll(obj)
	closeErr := obj.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read object '%s': %w", key, readErr)
	}

	if closeErr != nil {
		return nil, fmt.Errorf("failed to close object '%s': %w", key, closeErr)
	}

	object := &Object{Data: data}
	if info, err := obj.Info(); err == nil && info.Headers != nil {
		object.ContentType = info.Headers.Get(contentTypeHeader)
	}

	return object, nil
}

func (n *NATSStore) Close() error {
	n.conn.Close()
	return nil
}
