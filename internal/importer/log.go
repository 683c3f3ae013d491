package importer

import (
	"github.com/cardbox/cardbox/internal/domain"
)

// LogNote is a snapshot of a note's identity and fields at decision time.
type LogNote struct {
	ID     int64    `json:"id"`
	GUID   string   `json:"guid"`
	Fields []string `json:"fields"`
}

// NoteLog classifies every note seen during an import session by outcome.
type NoteLog struct {
	Found       int       `json:"found"`
	New         []LogNote `json:"new"`
	Updated     []LogNote `json:"updated"`
	Duplicate   []LogNote `json:"duplicate"`
	Conflicting []LogNote `json:"conflicting"`
}

// NoteImports accumulates the import log and the source→target note
// identifier map consumed by the card-import phase.
type NoteImports struct {
	IDMap map[int64]int64 `json:"id_map"`
	Log   NoteLog         `json:"log"`
}

func newNoteImports() NoteImports {
	return NoteImports{IDMap: make(map[int64]int64)}
}

func intoLogNote(note domain.Note) LogNote {
	fields := make([]string, len(note.Fields))
	copy(fields, note.Fields)
	return LogNote{ID: note.ID, GUID: note.GUID, Fields: fields}
}

func (ni *NoteImports) logNew(note domain.Note, sourceID int64) {
	ni.IDMap[sourceID] = note.ID
	ni.Log.New = append(ni.Log.New, intoLogNote(note))
}

func (ni *NoteImports) logUpdated(note domain.Note, sourceID int64) {
	ni.IDMap[sourceID] = note.ID
	ni.Log.Updated = append(ni.Log.Updated, intoLogNote(note))
}

func (ni *NoteImports) logDuplicate(note domain.Note, targetID int64) {
	ni.IDMap[note.ID] = targetID
	// id is for looking up the note in the *target* collection
	note.ID = targetID
	ni.Log.Duplicate = append(ni.Log.Duplicate, intoLogNote(note))
}

func (ni *NoteImports) logConflicting(note domain.Note) {
	ni.Log.Conflicting = append(ni.Log.Conflicting, intoLogNote(note))
}
