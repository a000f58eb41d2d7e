package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikhailyemets/todoplash/internal/domain"
	"github.com/mikhailyemets/todoplash/internal/storeclient"
)

const (
	msgWelcome          = "Hello! I'm your ToDo Bot.\nChoose an action below:"
	msgCanceled         = "Action canceled."
	msgChooseAction     = "ℹ️ Please choose an action from the menu."
	msgAccessDenied     = "Access denied."
	msgSomethingWrong   = "⚠️ Something went wrong. Please try again."
	msgInvalidNumber    = "⚠️ Please enter a valid number."
	msgUpdateFormat     = "⚠️ Incorrect format. Use `ID; New description`."
	msgEmptyDescription = "⚠️ Task description cannot be empty."
	msgEmptyTelegramID  = "⚠️ Please enter a Telegram ID."
	msgNoDomains        = "⚠️ Please enter at least one domain."
)

func renderTasks(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return "ℹ️ No tasks available."
	}
	var b strings.Builder
	b.WriteString("📋 Task List:")
	for _, t := range tasks {
		fmt.Fprintf(&b, "\n🆔 %d: %s", t.ID, t.Description)
	}
	return b.String()
}

func renderTask(t *domain.Task) string {
	if t == nil {
		return "⚠️ Task not found."
	}
	return fmt.Sprintf("📌 Task:\nID: %d\nDescription: %s\nCreated: %s",
		t.ID, t.Description, t.CreatedAt.UTC().Format(time.DateTime))
}

func renderUsers(users []domain.User) string {
	if len(users) == 0 {
		return "ℹ️ No users available."
	}
	var b strings.Builder
	b.WriteString("📋 Users:")
	for _, u := range users {
		fmt.Fprintf(&b, "\n👤 %s (%s)", u.TelegramID, u.Group)
	}
	return b.String()
}

func renderDeleteAll(res *storeclient.DeleteAllResult) string {
	if res == nil || res.Message == "" {
		return "✅ Deleted all tasks."
	}
	return "✅ " + res.Message
}

func renderProbeResults(results []domain.ProbeResult) string {
	if len(results) == 0 {
		return "ℹ️ No domains checked."
	}
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("Domain: %s\n- SSL: %s\n- Status: %s\n- Availability: %s",
			r.Domain, r.TLSStatus, r.HTTPStatus, r.Availability)
	}
	return strings.Join(blocks, "\n\n")
}
