package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"coligo-portal/internal/client"
	"coligo-portal/internal/dto"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	roleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func renderUser(title string, u *dto.UserResponse) string {
	if u == nil {
		return mutedStyle.Render(title)
	}
	body := fmt.Sprintf("%s\n%s <%s>\n%s",
		headerStyle.Render(title),
		titleStyle.Render(u.Name),
		u.Email,
		roleStyle.Render(u.Role),
	)
	return boxStyle.Render(body)
}

func renderAnnouncements(st client.SliceState[dto.AnnouncementResponse]) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("公告 (%d)", len(st.Items))))
	b.WriteString("\n")

	if st.Status == client.StatusRejected {
		b.WriteString(errorStyle.Render(st.Error))
		return b.String()
	}
	if len(st.Items) == 0 {
		b.WriteString(mutedStyle.Render("暂无公告"))
		return b.String()
	}

	for _, a := range st.Items {
		author := "unknown"
		if a.Author != nil {
			author = a.Author.Name
		}
		b.WriteString(titleStyle.Render(a.Title))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s · %s · %s", a.Course, author, a.CreatedAt)))
		b.WriteString("\n  ")
		b.WriteString(a.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderQuizzes(st client.SliceState[dto.QuizResponse]) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("测验 (%d)", len(st.Items))))
	b.WriteString("\n")

	if st.Status == client.StatusRejected {
		b.WriteString(errorStyle.Render(st.Error))
		return b.String()
	}
	if len(st.Items) == 0 {
		b.WriteString(mutedStyle.Render("暂无测验"))
		return b.String()
	}

	width := 0
	for _, q := range st.Items {
		if w := lipgloss.Width(q.Title); w > width {
			width = w
		}
	}
	for _, q := range st.Items {
		title := titleStyle.Width(width).Render(q.Title)
		meta := fmt.Sprintf("  %s / %s  due %s  %d 题 %d 分",
			q.Course, q.Topic, q.DueDate, len(q.Questions), q.TotalPoints)
		b.WriteString(title)
		b.WriteString(mutedStyle.Render(meta))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
