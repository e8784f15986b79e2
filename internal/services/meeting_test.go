package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 标题长度按字符（rune）计，边界2-255，与接口层的参数校验保持一致
func TestValidateTitle(t *testing.T) {
	s := &MeetingService{}

	assert.False(t, s.ValidateTitle(""))
	assert.False(t, s.ValidateTitle("会"))
	assert.True(t, s.ValidateTitle("会议"))
	assert.True(t, s.ValidateTitle("2026年第一次党委会"))

	assert.True(t, s.ValidateTitle(strings.Repeat("议", 255)))
	assert.False(t, s.ValidateTitle(strings.Repeat("议", 256)))
}
