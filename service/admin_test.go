package service

import (
	"testing"

	"blog-articles-service/model"

	"github.com/stretchr/testify/assert"
)

func TestAdminPolicy(t *testing.T) {
	p := NewAdminPolicy([]string{" Admin@My-Blog.com ", ""}, "admin")

	assert.False(t, p.IsAdmin(nil))
	assert.False(t, p.IsAdmin(&model.Identity{Email: DefaultAdminEmail}), "identity without uid")
	assert.True(t, p.IsAdmin(&model.Identity{UID: "a", Email: DefaultAdminEmail}))
	assert.False(t, p.IsAdmin(&model.Identity{UID: "b", Email: "reader@example.com"}))
	assert.True(t, p.IsAdmin(&model.Identity{UID: "c", Claims: map[string]interface{}{"admin": true}}))
	assert.False(t, p.IsAdmin(&model.Identity{UID: "d", Claims: map[string]interface{}{"admin": "yes"}}))
}

func TestAdminPolicyWithoutClaim(t *testing.T) {
	p := NewAdminPolicy(nil, "")
	assert.False(t, p.IsAdmin(&model.Identity{UID: "c", Claims: map[string]interface{}{"": true}}))
}
