package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpoint_AuthorizeData(t *testing.T) {
	t.Run("ordered markers", func(t *testing.T) {
		ep := New("GET /comments",
			AuthorizeData{Policy: "can-view-comment"},
			"unrelated metadata",
			AuthorizeData{},
			AuthorizeData{Policy: "can-view-page"},
		)

		data := ep.AuthorizeData()
		assert.Equal(t, []AuthorizeData{
			{Policy: "can-view-comment"},
			{},
			{Policy: "can-view-page"},
		}, data)
	})

	t.Run("no markers", func(t *testing.T) {
		ep := New("GET /ping", "unrelated metadata")
		assert.Empty(t, ep.AuthorizeData())
	})

	t.Run("nil endpoint", func(t *testing.T) {
		var ep *Endpoint
		assert.Empty(t, ep.AuthorizeData())
	})
}

func TestEndpoint_DisplayName(t *testing.T) {
	t.Run("named endpoint", func(t *testing.T) {
		ep := New("GET /comments")
		assert.Equal(t, "GET /comments", ep.DisplayName())
	})

	t.Run("nil endpoint", func(t *testing.T) {
		var ep *Endpoint
		assert.Equal(t, "", ep.DisplayName())
	})
}

func TestEndpoint_AllowsAnonymous(t *testing.T) {
	t.Run("marker present", func(t *testing.T) {
		ep := New("GET /health", AuthorizeData{Policy: "p"}, AllowAnonymous{})
		assert.True(t, ep.AllowsAnonymous())
	})

	t.Run("marker absent", func(t *testing.T) {
		ep := New("GET /comments", AuthorizeData{Policy: "p"})
		assert.False(t, ep.AllowsAnonymous())
	})

	t.Run("nil endpoint", func(t *testing.T) {
		var ep *Endpoint
		assert.False(t, ep.AllowsAnonymous())
	})
}
