package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", ""},
		{"fastapi string", `{"detail":"Documento no encontrado"}`, "Documento no encontrado"},
		{"fastapi validation", `{"detail":[{"loc":["body","question"],"msg":"field required"},{"msg":"too short"}]}`, "field required; too short"},
		{"plain text", "Internal Server Error", "Internal Server Error"},
		{"json without detail", `{"error":"x"}`, `{"error":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Error{Kind: KindServer, Op: OpQuery, Status: 500, Body: tt.body}
			assert.Equal(t, tt.want, e.Detail())
		})
	}
}

func TestErrorString(t *testing.T) {
	e := &Error{Kind: KindServer, Op: OpQuery, Status: 502, Body: `{"detail":"bad gateway"}`}
	assert.Equal(t, "query: server_error (HTTP 502): bad gateway", e.Error())

	v := NewValidationError(OpQuery, ErrEmptyQuestion)
	assert.Equal(t, "query: validation: question is empty", v.Error())
}

func TestKindOfWrapped(t *testing.T) {
	base := &Error{Kind: KindTimeout, Op: OpHealth}
	wrapped := fmt.Errorf("startup: %w", base)

	assert.Equal(t, KindTimeout, KindOf(wrapped))
	assert.True(t, IsTimeout(wrapped))
	assert.True(t, IsNetwork(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.False(t, IsNetwork(NewValidationError(OpQuery, nil)))
}

func TestClassifyTransport(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-expired.Done()

	assert.Equal(t, KindTimeout, classifyTransport(expired, OpQuery, expired.Err()).Kind)
	assert.Equal(t, KindTimeout, classifyTransport(context.Background(), OpQuery, context.DeadlineExceeded).Kind)
	assert.Equal(t, KindUnreachable, classifyTransport(context.Background(), OpQuery, context.Canceled).Kind)
	assert.Equal(t, KindUnreachable, classifyTransport(context.Background(), OpQuery, errors.New("connection refused")).Kind)

	orig := &Error{Kind: KindServer, Op: OpQuery, Status: 500}
	assert.Same(t, orig, classifyTransport(context.Background(), OpQuery, orig))
}
