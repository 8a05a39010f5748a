package context

import (
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
	"github.com/stretchr/testify/assert"
)

func TestContext_GetHeader(t *testing.T) {
	c := createTestContext()
	c.RequestContext.Request.Header.Set("Authorization", "Bearer abc")

	assert.Equal(t, "Bearer abc", c.GetHeader("Authorization"))
}

func TestContext_ParamUint64(t *testing.T) {
	c := createTestContext()
	c.Params = append(c.Params, param.Param{Key: "id", Value: "12"}, param.Param{Key: "bad", Value: "x1"})

	id, err := c.ParamUint64("id")
	assert.NoError(t, err)
	assert.Equal(t, uint64(12), id)

	_, err = c.ParamUint64("bad")
	assert.Error(t, err)

	_, err = c.ParamUint64("missing")
	assert.Error(t, err)
}

func TestResponse_WriteUsesMatchingStatus(t *testing.T) {
	cases := []struct {
		rsp    *Response
		status int
	}{
		{Success("ok"), consts.StatusOK},
		{Created(1), consts.StatusCreated},
		{NotFound("screen"), consts.StatusNotFound},
		{ParamError("id"), consts.StatusBadRequest},
		{Conflict("link"), consts.StatusConflict},
		{DatabaseError("down"), consts.StatusInternalServerError},
	}
	for _, tc := range cases {
		c := createTestContext()
		tc.rsp.Write(c)
		assert.Equal(t, tc.status, c.Response.StatusCode(), tc.rsp.Message)
		assert.Contains(t, string(c.Response.Body()), tc.rsp.Message)
	}
}

func TestResponse_NoContentHasNoBody(t *testing.T) {
	c := createTestContext()
	NoContent().Write(c)

	assert.Equal(t, consts.StatusNoContent, c.Response.StatusCode())
	assert.Empty(t, c.Response.Body())
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(SUCCESS_OK))
	assert.True(t, IsSuccess(SUCCESS_NO_CONTENT))
	assert.False(t, IsSuccess(CLIENT_NOT_FOUND))
	assert.False(t, IsSuccess(0))
}

func createTestContext() *Context {
	h := app.NewContext(0)
	h.Request.Header.SetMethod("GET")
	h.Request.SetRequestURI("/test")
	return &Context{RequestContext: h}
}
