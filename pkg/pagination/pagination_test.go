package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(rawQuery string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return Parse(c)
}

func TestParseDefaults(t *testing.T) {
	p := paramsFor("")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestParseClampsLimit(t *testing.T) {
	p := paramsFor("page=3&limit=1000")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 2*MaxLimit, p.Offset)
}

func TestParseRejectsGarbage(t *testing.T) {
	p := paramsFor("page=-4&limit=abc")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestEnvelope(t *testing.T) {
	body := Envelope([]string{"a", "b"}, 42, Params{Page: 2, Limit: 10})
	assert.Equal(t, int64(42), body["total"])
	assert.Equal(t, 2, body["page"])
	assert.Equal(t, 10, body["limit"])
}
