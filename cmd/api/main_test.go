package main

import (
	"context"
	"errors"
	"net"
	nethttp "net/http"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gynocare-chat/internal/config"
	storage_mocks "gynocare-chat/internal/storage/mocks"
	"gynocare-chat/internal/vectorstore"
	vectorstore_mocks "gynocare-chat/internal/vectorstore/mocks"
)

func TestCheckCollection(t *testing.T) {
	cfg := &config.Config{CollectionName: "faq", QdrantVectorSize: 384}

	tests := []struct {
		name       string
		setup      func(vs *vectorstore_mocks.MockVectorStore, fs *storage_mocks.MockFAQStore)
		wantErr    bool
		wantConfig bool
		wantKey    string
	}{
		{
			name: "ready",
			setup: func(vs *vectorstore_mocks.MockVectorStore, fs *storage_mocks.MockFAQStore) {
				vs.EXPECT().CollectionExists(gomock.Any(), "faq").Return(true, nil)
				vs.EXPECT().GetCollectionInfo(gomock.Any(), "faq").Return(&vectorstore.CollectionInfo{VectorSize: 384, PointsCount: 10}, nil)
				fs.EXPECT().CountByCollection(gomock.Any(), "faq").Return(10, nil)
			},
		},
		{
			name: "qdrant unreachable",
			setup: func(vs *vectorstore_mocks.MockVectorStore, fs *storage_mocks.MockFAQStore) {
				vs.EXPECT().CollectionExists(gomock.Any(), "faq").Return(false, errors.New("connection refused"))
			},
			wantErr: true,
		},
		{
			name: "collection missing",
			setup: func(vs *vectorstore_mocks.MockVectorStore, fs *storage_mocks.MockFAQStore) {
				vs.EXPECT().CollectionExists(gomock.Any(), "faq").Return(false, nil)
			},
			wantErr:    true,
			wantConfig: true,
			wantKey:    "COLLECTION_NAME",
		},
		{
			name: "vector size mismatch",
			setup: func(vs *vectorstore_mocks.MockVectorStore, fs *storage_mocks.MockFAQStore) {
				vs.EXPECT().CollectionExists(gomock.Any(), "faq").Return(true, nil)
				vs.EXPECT().GetCollectionInfo(gomock.Any(), "faq").Return(&vectorstore.CollectionInfo{VectorSize: 768, PointsCount: 10}, nil)
			},
			wantErr:    true,
			wantConfig: true,
			wantKey:    "QDRANT_VECTOR_SIZE",
		},
		{
			name: "collection empty",
			setup: func(vs *vectorstore_mocks.MockVectorStore, fs *storage_mocks.MockFAQStore) {
				vs.EXPECT().CollectionExists(gomock.Any(), "faq").Return(true, nil)
				vs.EXPECT().GetCollectionInfo(gomock.Any(), "faq").Return(&vectorstore.CollectionInfo{VectorSize: 384}, nil)
			},
			wantErr:    true,
			wantConfig: true,
			wantKey:    "COLLECTION_NAME",
		},
		{
			name: "catalog empty",
			setup: func(vs *vectorstore_mocks.MockVectorStore, fs *storage_mocks.MockFAQStore) {
				vs.EXPECT().CollectionExists(gomock.Any(), "faq").Return(true, nil)
				vs.EXPECT().GetCollectionInfo(gomock.Any(), "faq").Return(&vectorstore.CollectionInfo{VectorSize: 384, PointsCount: 10}, nil)
				fs.EXPECT().CountByCollection(gomock.Any(), "faq").Return(0, nil)
			},
			wantErr:    true,
			wantConfig: true,
			wantKey:    "DB_PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			vs := vectorstore_mocks.NewMockVectorStore(ctrl)
			fs := storage_mocks.NewMockFAQStore(ctrl)
			tt.setup(vs, fs)

			err := checkCollection(context.Background(), vs, fs, cfg)

			if (err != nil) != tt.wantErr {
				t.Fatalf("checkCollection() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if got := errors.Is(err, config.ErrConfiguration); got != tt.wantConfig {
				t.Errorf("errors.Is(err, ErrConfiguration) = %v, want %v", got, tt.wantConfig)
			}
			var cfgErr *config.ConfigurationError
			if tt.wantConfig && errors.As(err, &cfgErr) && cfgErr.Key != tt.wantKey {
				t.Errorf("ConfigurationError.Key = %q, want %q", cfgErr.Key, tt.wantKey)
			}
		})
	}
}

func TestServe_DrainsInFlightRequestOnShutdown(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	reqErr := make(chan error, 1)
	handler := nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		close(started)
		<-release
		reqErr <- r.Context().Err()
		w.WriteHeader(nethttp.StatusOK)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, newServer(ln.Addr().String(), handler), ln, zap.NewNop())
	}()

	status := make(chan int, 1)
	go func() {
		resp, err := nethttp.Get("http://" + ln.Addr().String() + "/chat")
		if err != nil {
			status <- 0
			return
		}
		_ = resp.Body.Close()
		status <- resp.StatusCode
	}()

	<-started
	cancel()
	time.Sleep(50 * time.Millisecond)
	close(release)

	if err := <-reqErr; err != nil {
		t.Errorf("request context error = %v, want nil", err)
	}
	if got := <-status; got != nethttp.StatusOK {
		t.Errorf("status = %d, want %d", got, nethttp.StatusOK)
	}
	if err := <-done; err != nil {
		t.Errorf("serve() error = %v", err)
	}
}

func TestRunMain_ConfigErrorExitCode(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("COLLECTION_NAME", "faq")

	if got := runMain(); got != 1 {
		t.Errorf("runMain() = %d, want 1", got)
	}
}
