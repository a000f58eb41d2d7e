package bot

import (
	"context"
	"strings"

	"github.com/mikhailyemets/todoplash/internal/metrics"
	"github.com/mikhailyemets/todoplash/internal/probe"
	"github.com/mikhailyemets/todoplash/internal/session"
)

// Commands outside the menu.
const (
	CommandStart  = "/start"
	CommandCancel = "/cancel"
)

// Menu labels. A message whose text equals a label triggers its workflow.
const (
	LabelCreateTask     = "➕ Create Task"
	LabelListTasks      = "📋 List Tasks"
	LabelGetTask        = "🔍 Get Task by ID"
	LabelUpdateTask     = "✏️ Update Task"
	LabelDeleteTask     = "❌ Delete Task"
	LabelDeleteAllTasks = "🗑 Delete All Tasks"
	LabelAddUser        = "➕ Add User"
	LabelDeleteUser     = "❌ Delete User"
	LabelEditUser       = "✏️ Edit User"
	LabelSearchDomains  = "🔎 Search Domains"
	LabelListUsers      = "📋 Get All Users"
)

// MenuRows is the layout of the main menu keyboard.
var MenuRows = [][]string{
	{LabelCreateTask, LabelListTasks},
	{LabelGetTask, LabelUpdateTask},
	{LabelDeleteTask, LabelDeleteAllTasks},
	{LabelAddUser, LabelDeleteUser},
	{LabelEditUser, LabelSearchDomains},
	{LabelListUsers},
}

type result struct {
	text    string
	outcome string
	err     error
}

func succeeded(text string) result {
	return result{text: text, outcome: metrics.OutcomeSuccess}
}

func failed(text string, err error) result {
	return result{text: text, outcome: metrics.OutcomeFailure, err: err}
}

func rejected(text string) result {
	return result{text: text, outcome: metrics.OutcomeInvalid}
}

type handlerFunc func(c *Controller, ctx context.Context, msg Message) result

// workflow binds a menu label to either an immediate action (run) or a
// prompt followed by a payload step in the await state.
type workflow struct {
	name     string
	label    string
	admin    bool
	foldCase bool
	await    session.State
	prompt   string
	run      handlerFunc
	payload  handlerFunc
}

var workflows = []*workflow{
	{
		name:    "create_task",
		label:   LabelCreateTask,
		await:   session.StateAwaitTaskDesc,
		prompt:  "Please send the task description:",
		payload: (*Controller).createTask,
	},
	{
		name:  "list_tasks",
		label: LabelListTasks,
		run:   (*Controller).listTasks,
	},
	{
		name:    "get_task",
		label:   LabelGetTask,
		await:   session.StateAwaitTaskIDForGet,
		prompt:  "Please send the task ID:",
		payload: (*Controller).getTask,
	},
	{
		name:    "update_task",
		label:   LabelUpdateTask,
		await:   session.StateAwaitTaskUpdatePair,
		prompt:  "Send `ID; New description` (e.g., `1; Updated task`):",
		payload: (*Controller).updateTask,
	},
	{
		name:    "delete_task",
		label:   LabelDeleteTask,
		await:   session.StateAwaitTaskIDForDel,
		prompt:  "Please send the task ID to delete:",
		payload: (*Controller).deleteTask,
	},
	{
		name:     "delete_all_tasks",
		label:    LabelDeleteAllTasks,
		foldCase: true,
		run:      (*Controller).deleteAllTasks,
	},
	{
		name:    "add_user",
		label:   LabelAddUser,
		admin:   true,
		await:   session.StateAwaitUserAddInfo,
		prompt:  "Enter user info in format: telegram_id, group (e.g., 123456789, test_user):",
		payload: (*Controller).addUser,
	},
	{
		name:    "delete_user",
		label:   LabelDeleteUser,
		admin:   true,
		await:   session.StateAwaitUserDeleteID,
		prompt:  "Enter the Telegram ID of the user to delete:",
		payload: (*Controller).deleteUser,
	},
	{
		name:    "edit_user",
		label:   LabelEditUser,
		admin:   true,
		await:   session.StateAwaitUserEditInfo,
		prompt:  "Enter user info in format: telegram_id, new group (e.g., 123456789, admin):",
		payload: (*Controller).editUser,
	},
	{
		name:    "search_domains",
		label:   LabelSearchDomains,
		await:   session.StateAwaitDomainList,
		prompt:  "Enter domains (each on a new line):",
		payload: (*Controller).searchDomains,
	},
	{
		name:  "list_users",
		label: LabelListUsers,
		admin: true,
		run:   (*Controller).listUsers,
	},
}

var (
	byLabel = make(map[string]*workflow, len(workflows))
	byState = make(map[session.State]*workflow, len(workflows))
)

func init() {
	for _, w := range workflows {
		byLabel[w.label] = w
		if w.await != "" {
			byState[w.await] = w
		}
	}
}

func lookup(text string) (*workflow, bool) {
	if w, ok := byLabel[text]; ok {
		return w, true
	}
	for _, w := range workflows {
		if w.foldCase && strings.EqualFold(text, w.label) {
			return w, true
		}
	}
	return nil, false
}

func workflowForState(st session.State) string {
	if w, ok := byState[st]; ok {
		return w.name
	}
	return "unknown"
}

func (c *Controller) createTask(ctx context.Context, msg Message) result {
	desc := strings.TrimSpace(msg.Text)
	if desc == "" {
		return rejected(msgEmptyDescription)
	}
	if _, err := c.store.CreateTask(ctx, desc); err != nil {
		return failed("⚠️ Failed to create task.", err)
	}
	return succeeded("✅ Task created successfully!")
}

func (c *Controller) listTasks(ctx context.Context, _ Message) result {
	tasks, err := c.store.ListTasks(ctx)
	if err != nil {
		return failed("⚠️ Failed to retrieve tasks.", err)
	}
	return succeeded(renderTasks(tasks))
}

func (c *Controller) getTask(ctx context.Context, msg Message) result {
	id, ok := parseTaskID(msg.Text)
	if !ok {
		return rejected(msgInvalidNumber)
	}
	task, err := c.store.GetTask(ctx, id)
	if err != nil {
		return failed("⚠️ Task not found.", err)
	}
	return succeeded(renderTask(task))
}

func (c *Controller) updateTask(ctx context.Context, msg Message) result {
	id, desc, ok := parseUpdatePair(msg.Text)
	if !ok {
		return rejected(msgUpdateFormat)
	}
	if _, err := c.store.UpdateTask(ctx, id, desc); err != nil {
		return failed("⚠️ Failed to update task.", err)
	}
	return succeeded("✅ Task updated successfully!")
}

func (c *Controller) deleteTask(ctx context.Context, msg Message) result {
	id, ok := parseTaskID(msg.Text)
	if !ok {
		return rejected(msgInvalidNumber)
	}
	if err := c.store.DeleteTask(ctx, id); err != nil {
		return failed("⚠️ Failed to delete task.", err)
	}
	return succeeded("✅ Task deleted successfully!")
}

func (c *Controller) deleteAllTasks(ctx context.Context, _ Message) result {
	res, err := c.store.DeleteAllTasks(ctx)
	if err != nil {
		return failed("⚠️ Failed to delete all tasks.", err)
	}
	return succeeded(renderDeleteAll(res))
}

func (c *Controller) listUsers(ctx context.Context, _ Message) result {
	users, err := c.store.ListUsers(ctx)
	if err != nil {
		return failed("⚠️ Failed to retrieve users.", err)
	}
	return succeeded(renderUsers(users))
}

func (c *Controller) addUser(ctx context.Context, msg Message) result {
	tgID, group, ok := parseUserPair(msg.Text)
	if !ok {
		return rejected("⚠️ Incorrect format. Use: telegram_id, group")
	}
	if _, err := c.store.AddUser(ctx, tgID, group); err != nil {
		return failed("⚠️ Failed to add user.", err)
	}
	return succeeded("✅ User added successfully.")
}

func (c *Controller) deleteUser(ctx context.Context, msg Message) result {
	tgID := strings.TrimSpace(msg.Text)
	if tgID == "" {
		return rejected(msgEmptyTelegramID)
	}
	if err := c.store.DeleteUser(ctx, tgID); err != nil {
		return failed("⚠️ Failed to delete user.", err)
	}
	return succeeded("✅ User deleted successfully.")
}

func (c *Controller) editUser(ctx context.Context, msg Message) result {
	tgID, group, ok := parseUserPair(msg.Text)
	if !ok {
		return rejected("⚠️ Incorrect format. Use: telegram_id, new group")
	}
	if _, err := c.store.EditUser(ctx, tgID, group); err != nil {
		return failed("⚠️ Failed to update user.", err)
	}
	return succeeded("✅ User updated successfully.")
}

func (c *Controller) searchDomains(ctx context.Context, msg Message) result {
	domains := probe.SplitLines(msg.Text)
	if len(domains) == 0 {
		return rejected(msgNoDomains)
	}
	results, err := c.store.SearchDomains(ctx, probe.ListInput(domains))
	if err != nil {
		return failed("⚠️ Failed to check domains.", err)
	}
	return succeeded(renderProbeResults(results))
}

// parseTaskID accepts a non-empty run of ASCII digits, surrounding space ignored.
func parseTaskID(text string) (string, bool) {
	id := strings.TrimSpace(text)
	return id, isDigits(id)
}

// parseUpdatePair splits "ID; description" on the first semicolon.
func parseUpdatePair(text string) (id, desc string, ok bool) {
	rawID, rawDesc, found := strings.Cut(text, ";")
	if !found {
		return "", "", false
	}
	id, desc = strings.TrimSpace(rawID), strings.TrimSpace(rawDesc)
	if !isDigits(id) || desc == "" {
		return "", "", false
	}
	return id, desc, true
}

// parseUserPair splits "telegram_id, group" into exactly two non-empty parts.
func parseUserPair(text string) (tgID, group string, ok bool) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return "", "", false
	}
	tgID, group = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if tgID == "" || group == "" {
		return "", "", false
	}
	return tgID, group, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
