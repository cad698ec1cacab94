package board

import "workboard/internal/model"

// ColumnView is one rendered column.
type ColumnView struct {
	ID    model.Status `json:"id"`
	Title string       `json:"title"`
	Tasks []model.Task `json:"tasks"`
}

// View is the board as handed to the renderer: columns in display order.
type View struct {
	Version uint64       `json:"version"`
	Columns []ColumnView `json:"columns"`
}

func NewView(columns []model.Status, version uint64, p Partition) View {
	v := View{Version: version, Columns: make([]ColumnView, 0, len(columns))}
	for _, c := range columns {
		tasks := p[c]
		if tasks == nil {
			tasks = []model.Task{}
		}
		v.Columns = append(v.Columns, ColumnView{ID: c, Title: c.Title(), Tasks: tasks})
	}
	return v
}

// View renders the current partition.
func (s *Store) View() View {
	p, version := s.Snapshot()
	return NewView(s.columns, version, p)
}
