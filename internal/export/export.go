// Package export renders a user's todo list as an XML document.
package export

import (
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/dkovalev/todo-service/internal/models"
)

// Todos builds an XML document with one <todo> element per record. Nullable
// fields (description, updated_at) are omitted when unset.
func Todos(userID int64, todos []models.Todo) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("todos")
	root.CreateAttr("user_id", strconv.FormatInt(userID, 10))
	root.CreateAttr("count", strconv.Itoa(len(todos)))

	for _, t := range todos {
		el := root.CreateElement("todo")
		el.CreateAttr("id", strconv.FormatInt(t.ID, 10))
		el.CreateElement("title").SetText(t.Title)
		if t.Description != nil {
			el.CreateElement("description").SetText(*t.Description)
		}
		el.CreateElement("completed").SetText(strconv.FormatBool(t.Completed))
		el.CreateElement("created_at").SetText(t.CreatedAt.Format(time.RFC3339))
		if t.UpdatedAt != nil {
			el.CreateElement("updated_at").SetText(t.UpdatedAt.Format(time.RFC3339))
		}
	}

	doc.Indent(2)
	return doc
}
