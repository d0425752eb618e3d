package storage

import "github.com/timeblock/timeblock/internal/model"

// OwnerView binds a store to a single owner. Its method set satisfies the
// editor session's backend interface, so a session can run directly against
// local storage without going through HTTP.
type OwnerView struct {
	store *Store
	owner string
}

// ViewFor returns an owner-bound view of the store.
func (s *Store) ViewFor(owner string) *OwnerView {
	return &OwnerView{store: s, owner: owner}
}

func (v *OwnerView) ListTasks() ([]model.Task, error) {
	return v.store.ListTasks(v.owner)
}

func (v *OwnerView) SaveTask(t model.Task) (string, error) {
	return v.store.SaveTask(v.owner, t)
}

func (v *OwnerView) DeleteTask(id string) error {
	return v.store.DeleteTask(v.owner, id)
}

func (v *OwnerView) ListCategories() ([]model.Category, error) {
	return v.store.ListCategories(v.owner)
}

func (v *OwnerView) SaveCategory(c model.Category) (string, error) {
	return v.store.SaveCategory(v.owner, c)
}

func (v *OwnerView) UpdateCategory(c model.Category) error {
	return v.store.UpdateCategory(v.owner, c)
}

func (v *OwnerView) DeleteCategory(id string) error {
	return v.store.DeleteCategory(v.owner, id)
}

func (v *OwnerView) ListTimeLogs(taskID string) ([]model.TimeLog, error) {
	return v.store.ListTimeLogs(v.owner, taskID)
}

func (v *OwnerView) SaveTimeLog(taskID string, duration int, note string) (string, error) {
	entry, err := v.store.AddTimeLog(v.owner, taskID, duration, note)
	if err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (v *OwnerView) UpdateTimeLogNote(taskID, logID, note string) error {
	return v.store.UpdateTimeLogNote(v.owner, taskID, logID, note)
}

func (v *OwnerView) DeleteTimeLog(taskID, logID string) error {
	return v.store.DeleteTimeLog(v.owner, taskID, logID)
}

func (v *OwnerView) ListTodos() ([]model.TodoItem, error) {
	return v.store.ListTodos(v.owner)
}

func (v *OwnerView) SaveTodo(text, startDate, endDate string) (model.TodoItem, error) {
	return v.store.AddTodo(v.owner, text, startDate, endDate)
}

func (v *OwnerView) UpdateTodo(id string, upd model.TodoUpdate) error {
	return v.store.UpdateTodo(v.owner, id, upd)
}

func (v *OwnerView) DeleteTodo(id string) error {
	return v.store.DeleteTodo(v.owner, id)
}

func (v *OwnerView) ReorderTodos(ids []string) error {
	return v.store.ReorderTodos(v.owner, ids)
}
