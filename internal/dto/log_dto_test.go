package dto_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2ta/recall/internal/dto"
	pkgapp "github.com/2ta/recall/pkg/app"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bindJSON(t *testing.T, body string, param interface{}) (bool, pkgapp.ValidErrors) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	assert.Nil(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return pkgapp.BindAndValid(c, param)
}

// 修复导入的旧数据可能带非 UUID 的 id，更新入口要能接收
func TestLogUpdateRequestAcceptsLegacyID(t *testing.T) {
	params := &dto.LogUpdateRequest{}
	valid, errs := bindJSON(t, `{"id":"legacy-1718000000000","content":"updated"}`, params)
	assert.True(t, valid)
	assert.Nil(t, errs)
	assert.Equal(t, "legacy-1718000000000", params.ID)
}

func TestLogDeleteRequestAcceptsLegacyID(t *testing.T) {
	params := &dto.LogDeleteRequest{}
	valid, errs := bindJSON(t, `{"id":"legacy-1718000000000","confirm":true}`, params)
	assert.True(t, valid)
	assert.Nil(t, errs)
	assert.Equal(t, "legacy-1718000000000", params.ID)
	assert.True(t, params.Confirm)
}

func TestLogUpdateRequestRequiresID(t *testing.T) {
	params := &dto.LogUpdateRequest{}
	valid, _ := bindJSON(t, `{"content":"updated"}`, params)
	assert.False(t, valid)
}
