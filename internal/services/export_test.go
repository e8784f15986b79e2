package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteCSVWithBOM(t *testing.T) {
	s := &ExportService{}

	data, err := s.writeCSV([][]string{
		{"ID", "标题"},
		{"1", "学术委员会第三次会议"},
	})
	assert.NoError(t, err)

	// Excel兼容的UTF-8 BOM前缀
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"))

	body := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "ID,标题", lines[0])
	assert.Equal(t, "1,学术委员会第三次会议", lines[1])
}

func TestWriteCSVQuotesFields(t *testing.T) {
	s := &ExportService{}

	data, err := s.writeCSV([][]string{
		{"含,逗号", "含\"引号\""},
	})
	assert.NoError(t, err)

	body := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
	assert.Equal(t, "\"含,逗号\",\"含\"\"引号\"\"\"", strings.TrimSpace(body))
}

func TestMeetingHeader(t *testing.T) {
	header := meetingHeader()
	assert.Equal(t, []string{"ID", "编号", "标题", "会议类型", "地点", "计划时间", "状态"}, header)
}
