package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yukikurage/tenant-task-api/internal/constants"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		l, err := New(Config{Level: "debug", Environment: env, ServiceName: "test"})
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestFromGin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, zap.L(), FromGin(c))

	scoped := zap.NewNop().With(zap.String("request_id", "abc"))
	c.Set(constants.ContextKeyLogger, scoped)
	assert.Equal(t, scoped, FromGin(c))
}
