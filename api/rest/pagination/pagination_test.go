package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		want          Params
	}{
		{"defaults", 0, 0, Params{Limit: 20, Offset: 0}},
		{"capped", 500, 10, Params{Limit: 100, Offset: 10}},
		{"negative offset", 5, -3, Params{Limit: 5, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultParams(tt.limit, tt.offset, 20, 100))
		})
	}
}

func TestNewMeta(t *testing.T) {
	assert.True(t, NewMeta(Params{Limit: 20, Offset: 0}, 21).HasMore)
	assert.False(t, NewMeta(Params{Limit: 20, Offset: 20}, 21).HasMore)
}

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?limit=abc&offset=40", nil)

	assert.Equal(t, Params{Limit: 20, Offset: 40}, FromQuery(c, 20, 100))
}
