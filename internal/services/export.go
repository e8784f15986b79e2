package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"meetgov/internal/models"

	"gorm.io/gorm"
)

// ExportService 导出导入服务
// 统一输出CSV：会议清单、议程、纪要、参会人员；参会人员支持CSV导入
type ExportService struct {
	db           *gorm.DB
	agendaItems  *AgendaItemService
	minutes      *MinuteService
	participants *ParticipantService
}

func NewExportService(db *gorm.DB, agendaItems *AgendaItemService, minutes *MinuteService, participants *ParticipantService) *ExportService {
	return &ExportService{
		db:           db,
		agendaItems:  agendaItems,
		minutes:      minutes,
		participants: participants,
	}
}

// ImportResult 导入结果统计
type ImportResult struct {
	Total   int      `json:"total"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

// ExportMeetings 导出会议清单（受可见类型集约束）
func (s *ExportService) ExportMeetings(typeIDs []uint, restrict bool) ([]byte, error) {
	query := s.db.Model(&models.Meeting{}).Preload("MeetingType")
	if restrict {
		if len(typeIDs) == 0 {
			return s.writeCSV([][]string{meetingHeader()})
		}
		query = query.Where("meeting_type_id IN ?", typeIDs)
	}

	var meetings []*models.Meeting
	if err := query.Order("scheduled_at DESC NULLS LAST, id DESC").Find(&meetings).Error; err != nil {
		return nil, err
	}

	rows := [][]string{meetingHeader()}
	for _, m := range meetings {
		typeName := ""
		if m.MeetingType != nil {
			typeName = m.MeetingType.Name
		}
		scheduled := ""
		if m.ScheduledAt != nil {
			scheduled = m.ScheduledAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(m.ID), 10),
			m.Number,
			m.Title,
			typeName,
			m.Venue,
			scheduled,
			m.Status,
		})
	}

	return s.writeCSV(rows)
}

func meetingHeader() []string {
	return []string{"ID", "编号", "标题", "会议类型", "地点", "计划时间", "状态"}
}

// ExportAgenda 导出某会议的议程
func (s *ExportService) ExportAgenda(meetingID uint) ([]byte, error) {
	items, err := s.agendaItems.GetByMeeting(meetingID)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{"序号", "议题", "类型", "汇报人", "说明"}}
	for _, item := range items {
		typeName := ""
		if item.AgendaItemType != nil {
			typeName = item.AgendaItemType.Name
		}
		presenter := ""
		if item.Presenter != nil {
			presenter = item.Presenter.Name
		}
		rows = append(rows, []string{
			strconv.Itoa(item.SortOrder),
			item.Title,
			typeName,
			presenter,
			item.Description,
		})
	}

	return s.writeCSV(rows)
}

// ExportMinutes 导出某会议的纪要
func (s *ExportService) ExportMinutes(meetingID uint) ([]byte, error) {
	minutes, err := s.minutes.GetByMeeting(meetingID)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{"议题", "纪要", "决议"}}
	for _, minute := range minutes {
		itemTitle := ""
		if minute.AgendaItem != nil {
			itemTitle = minute.AgendaItem.Title
		}
		rows = append(rows, []string{
			itemTitle,
			minute.Content,
			minute.Decision,
		})
	}

	return s.writeCSV(rows)
}

// ExportParticipants 导出全部参会人员
func (s *ExportService) ExportParticipants() ([]byte, error) {
	participants, err := s.participants.GetAll()
	if err != nil {
		return nil, err
	}

	rows := [][]string{{"姓名", "邮箱", "部门", "职位", "聘用状态"}}
	for _, p := range participants {
		position := ""
		if p.Position != nil {
			position = p.Position.Name
		}
		status := ""
		if p.EmploymentStatus != nil {
			status = p.EmploymentStatus.Name
		}
		rows = append(rows, []string{p.Name, p.Email, p.Department, position, status})
	}

	return s.writeCSV(rows)
}

// ImportParticipants 从CSV导入参会人员
// 列：姓名,邮箱,部门；邮箱已存在则更新，否则新建；单行失败不中断
func (s *ExportService) ImportParticipants(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析CSV失败: %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV内容为空")
	}

	// 跳过表头
	start := 0
	if len(records[0]) > 0 && (records[0][0] == "姓名" || records[0][0] == "name" || records[0][0] == "Name") {
		start = 1
	}

	result := &ImportResult{}
	for i := start; i < len(records); i++ {
		record := records[i]
		result.Total++

		if len(record) < 2 {
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行：列数不足", i+1))
			continue
		}

		name := record[0]
		email := record[1]
		department := ""
		if len(record) > 2 {
			department = record[2]
		}

		if err := s.participants.ValidateParams(name, email); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行：%v", i+1, err))
			continue
		}

		if email != "" {
			existing, err := s.participants.FindByEmail(email)
			if err == nil {
				_, err = s.participants.Update(existing.ID, existing.UserID, existing.PositionID, existing.EmploymentStatusID, name, email, department)
				if err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("第%d行：%v", i+1, err))
					continue
				}
				result.Updated++
				continue
			}
		}

		_, err := s.participants.Create(nil, nil, nil, name, email, department)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行：%v", i+1, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

// writeCSV 序列化CSV并带UTF-8 BOM（Excel兼容）
func (s *ExportService) writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
