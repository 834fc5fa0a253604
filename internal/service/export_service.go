package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"coligo-portal/internal/model"
	"coligo-portal/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

const (
	quizSheet     = "Quizzes"
	questionSheet = "Questions"
	calendarProd  = "-//coligo//portal//EN"
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response。
// course 为空时导出全部测验。
type ExportService interface {
	// ExportQuizzes 导出测验为 Excel：一张测验汇总表，一张逐题明细表
	ExportQuizzes(ctx context.Context, course string) (*bytes.Buffer, string, error)
	// ExportCalendar 导出测验截止日期为 iCalendar
	ExportCalendar(ctx context.Context, course string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportQuizzes
// ═══════════════════════════════════════════════════════════
//
//   - Sheet "Quizzes"：标题 / 课程 / 主题 / 截止日期 / 题目数 / 总分
//   - Sheet "Questions"：测验 / 序号 / 题目 / 选项 / 正确答案 / 分值

func (s *exportService) ExportQuizzes(ctx context.Context, course string) (*bytes.Buffer, string, error) {
	quizzes, err := s.repo.Quiz.List(ctx, course)
	if err != nil {
		s.logger.Error("查询测验失败", zap.String("course", course), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(quizSheet)
	f.SetActiveSheet(idx)
	f.NewSheet(questionSheet)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 汇总表
	writeHeader(f, quizSheet, headerStyle, "Title", "Course", "Topic", "Due Date", "Questions", "Total Points")
	f.SetColWidth(quizSheet, "A", "A", 32)
	f.SetColWidth(quizSheet, "B", "C", 18)
	f.SetColWidth(quizSheet, "D", "D", 20)

	// 明细表
	writeHeader(f, questionSheet, headerStyle, "Quiz", "#", "Question", "Options", "Correct Answer", "Points")
	f.SetColWidth(questionSheet, "A", "A", 32)
	f.SetColWidth(questionSheet, "C", "D", 40)
	f.SetColWidth(questionSheet, "E", "E", 20)

	qRow := 2
	for i, quiz := range quizzes {
		row := i + 2
		f.SetCellValue(quizSheet, cell("A", row), quiz.Title)
		f.SetCellValue(quizSheet, cell("B", row), quiz.Course)
		f.SetCellValue(quizSheet, cell("C", row), quiz.Topic)
		f.SetCellValue(quizSheet, cell("D", row), quiz.DueDate.UTC().Format("2006-01-02 15:04"))
		f.SetCellValue(quizSheet, cell("E", row), len(quiz.Questions))
		f.SetCellValue(quizSheet, cell("F", row), quiz.TotalPoints)

		for n, q := range quiz.Questions {
			f.SetCellValue(questionSheet, cell("A", qRow), quiz.Title)
			f.SetCellValue(questionSheet, cell("B", qRow), n+1)
			f.SetCellValue(questionSheet, cell("C", qRow), q.Question)
			f.SetCellValue(questionSheet, cell("D", qRow), strings.Join(q.Options, " | "))
			f.SetCellValue(questionSheet, cell("E", qRow), q.CorrectAnswer)
			f.SetCellValue(questionSheet, cell("F", qRow), q.Points)
			qRow++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, exportFilename("quizzes", course, "xlsx"), nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个测验一个 VEVENT，开始与结束均为截止时间，UID 为测验 ID。

func (s *exportService) ExportCalendar(ctx context.Context, course string) (*bytes.Buffer, string, error) {
	quizzes, err := s.repo.Quiz.List(ctx, course)
	if err != nil {
		s.logger.Error("查询测验失败", zap.String("course", course), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProd)
	cal.SetXWRCalName("Quiz due dates")

	stamp := s.now().UTC()
	for i := range quizzes {
		addQuizEvent(cal, &quizzes[i], stamp)
	}

	return bytes.NewBufferString(cal.Serialize()), exportFilename("quizzes", course, "ics"), nil
}

// ── 辅助函数 ──

func addQuizEvent(cal *ics.Calendar, quiz *model.Quiz, stamp time.Time) {
	event := cal.AddEvent(quiz.QuizID + "@coligo-portal")
	event.SetDtStampTime(stamp)
	event.SetStartAt(quiz.DueDate.UTC())
	event.SetEndAt(quiz.DueDate.UTC())
	event.SetSummary(fmt.Sprintf("%s due (%s)", quiz.Title, quiz.Course))

	desc := fmt.Sprintf("Topic: %s\nQuestions: %d\nTotal points: %d", quiz.Topic, len(quiz.Questions), quiz.TotalPoints)
	if quiz.Instructions != "" {
		desc += "\n\n" + quiz.Instructions
	}
	event.SetDescription(desc)
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) {
	for i, title := range titles {
		ref := cell(colName(i), 1)
		f.SetCellValue(sheet, ref, title)
		f.SetCellStyle(sheet, ref, ref, style)
	}
}

func exportFilename(base, course, ext string) string {
	if course == "" {
		return fmt.Sprintf("%s.%s", base, ext)
	}
	return fmt.Sprintf("%s_%s.%s", base, strings.ReplaceAll(course, " ", "_"), ext)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
