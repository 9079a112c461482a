package journal

import (
	"time"
)

// Folder groups journal entries. The icon column of the store holds the
// palette color, as a hex string.
type Folder struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Category maps the folder name onto the fixed category set.
func (f Folder) Category() Category {
	return CategoryOf(f.Name)
}

// Journal is a single dated entry.
type Journal struct {
	ID           int64     `json:"id"`
	FolderID     int64     `json:"folder_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	DateAdded    time.Time `json:"date_added"`
	DateModified time.Time `json:"date_modified"`
	Mood         *Mood     `json:"mood,omitempty"`
}

// Listed pairs an entry with the folder it belongs to. Entries whose folder
// no longer exists get a zero ID folder named "others" in the default color.
type Listed struct {
	Journal
	FolderName  string `json:"folder_name"`
	FolderColor string `json:"folder_color"`
}
