// Package importer reconciles a foreign package of notes and notetypes into
// a target collection. Notetypes are reconciled first; their identity
// remapping feeds note reconciliation, which classifies every incoming note
// as new, updated, duplicate, or conflicting.
package importer

import (
	"github.com/rs/zerolog"

	"github.com/cardbox/cardbox/internal/domain"
	"github.com/cardbox/cardbox/internal/events"
	"github.com/cardbox/cardbox/internal/logging"
	"github.com/cardbox/cardbox/internal/media"
	"github.com/cardbox/cardbox/internal/progress"
	"github.com/cardbox/cardbox/internal/store"
	"github.com/cardbox/cardbox/internal/tags"
)

// Options configures an import session.
type Options struct {
	// USN stamps every inserted or updated record with the session's sync
	// generation.
	USN int
	// NormalizeText enables Unicode normalization of note fields before
	// storage. Callers normally read this from the collection config.
	NormalizeText bool
	// Progress, if set, receives throttled note counts; an error from it
	// aborts the remaining batch.
	Progress progress.Func
	// Events, if set, receives notetype audit events.
	Events *events.Writer
}

// Importer holds the mutable state of one merge session: a borrowed,
// exclusively-owned handle to the target collection plus precomputed
// snapshots of its note identifiers and GUID index.
type Importer struct {
	store         *store.Store
	usn           int
	normalizeText bool

	remappedNotetypes map[int64]int64
	targetGUIDs       map[string]domain.NoteMeta
	targetIDs         map[int64]struct{}

	mediaMap *media.UseMap
	events   *events.Writer
	inc      *progress.Incrementor
	logger   zerolog.Logger

	imports NoteImports
}

// New builds an import session against the given collection store. The
// store is expected to be transaction-bound; the caller owns commit and
// rollback. The GUID index and identifier set are snapshotted here and not
// refreshed for the lifetime of the session.
func New(s *store.Store, mediaMap *media.UseMap, opts Options) (*Importer, error) {
	targetGUIDs, err := s.Notes.GUIDMap()
	if err != nil {
		return nil, err
	}
	targetIDs, err := s.Notes.AllIDs()
	if err != nil {
		return nil, err
	}
	if mediaMap == nil {
		mediaMap = media.NewUseMap()
	}

	return &Importer{
		store:             s,
		usn:               opts.USN,
		normalizeText:     opts.NormalizeText,
		remappedNotetypes: make(map[int64]int64),
		targetGUIDs:       targetGUIDs,
		targetIDs:         targetIDs,
		mediaMap:          mediaMap,
		events:            opts.Events,
		inc:               progress.NewIncrementor(opts.Progress),
		logger:            logging.GetLogger("importer"),
		imports:           newNoteImports(),
	}, nil
}

// Imports returns the accumulated import log and identity map.
func (imp *Importer) Imports() *NoteImports {
	return &imp.imports
}

// RemappedNotetypes returns the identity remapping table populated by
// notetype reconciliation.
func (imp *Importer) RemappedNotetypes() map[int64]int64 {
	return imp.remappedNotetypes
}

// ImportNotetypes reconciles the incoming notetypes against the target
// collection, in input order. It must run before ImportNotes.
func (imp *Importer) ImportNotetypes(notetypes []domain.Notetype) error {
	for i := range notetypes {
		notetype := &notetypes[i]
		existing, err := imp.store.Notetypes.Get(notetype.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := imp.mergeOrRemapNotetype(notetype, existing); err != nil {
				return err
			}
		} else {
			if err := imp.addNotetype(notetype); err != nil {
				return err
			}
		}
	}
	return nil
}

func (imp *Importer) mergeOrRemapNotetype(incoming, existing *domain.Notetype) error {
	if schemaHash(incoming) == schemaHash(existing) {
		if incoming.MtimeSecs > existing.MtimeSecs {
			return imp.updateNotetype(incoming)
		}
		// Target's version is as new or newer; keep it.
		return nil
	}
	return imp.addNotetypeWithRemappedID(incoming)
}

func (imp *Importer) addNotetype(notetype *domain.Notetype) error {
	if err := imp.store.Notetypes.EnsureNameUnique(notetype); err != nil {
		return err
	}
	notetype.USN = imp.usn
	if err := imp.store.Notetypes.Add(notetype); err != nil {
		return err
	}
	imp.logger.Debug().Int64("id", notetype.ID).Str("name", notetype.Name).Msg("added notetype")
	if imp.events != nil {
		return imp.events.LogNotetypeAdded(imp.store.Tx(), notetype.ID, notetype.Name)
	}
	return nil
}

func (imp *Importer) updateNotetype(notetype *domain.Notetype) error {
	notetype.USN = imp.usn
	if err := imp.store.Notetypes.Update(notetype); err != nil {
		return err
	}
	imp.logger.Debug().Int64("id", notetype.ID).Str("name", notetype.Name).Msg("updated notetype")
	if imp.events != nil {
		return imp.events.LogNotetypeUpdated(imp.store.Tx(), notetype.ID, notetype.Name)
	}
	return nil
}

// addNotetypeWithRemappedID inserts a schema-diverged notetype under a
// fresh identifier and records the remapping, so that two collections that
// independently changed the same notetype's structure never collide
// silently.
func (imp *Importer) addNotetypeWithRemappedID(notetype *domain.Notetype) error {
	oldID := notetype.ID
	notetype.ID = 0
	if err := imp.store.Notetypes.EnsureNameUnique(notetype); err != nil {
		return err
	}
	notetype.USN = imp.usn
	if err := imp.store.Notetypes.AddWithFreshID(notetype); err != nil {
		return err
	}
	imp.remappedNotetypes[oldID] = notetype.ID
	imp.logger.Debug().Int64("old_id", oldID).Int64("new_id", notetype.ID).
		Str("name", notetype.Name).Msg("remapped diverged notetype")
	if imp.events != nil {
		return imp.events.LogNotetypeRemapped(imp.store.Tx(), oldID, notetype.ID, notetype.Name)
	}
	return nil
}

// ImportNotes reconciles the incoming notes against the target collection,
// one at a time in input order.
func (imp *Importer) ImportNotes(notes []domain.Note) error {
	imp.imports.Log.Found = len(notes)
	for _, note := range notes {
		if err := imp.inc.Increment(); err != nil {
			return err
		}

		remappedNtid, remapped := imp.remappedNotetypes[note.NotetypeID]
		if existing, ok := imp.targetGUIDs[note.GUID]; ok {
			if existing.MtimeSecs < note.MtimeSecs {
				if existing.NotetypeID != note.NotetypeID || remapped {
					// Existing GUID with different notetype id, or changed
					// notetype schema: cannot auto-merge.
					imp.imports.logConflicting(note)
					imp.logger.Debug().Str("guid", note.GUID).Msg("conflicting note")
				} else if err := imp.updateNote(note, existing.ID); err != nil {
					return err
				}
			} else {
				imp.imports.logDuplicate(note, existing.ID)
			}
		} else {
			if remapped {
				// Notetypes have diverged, but this is a new note, so it can
				// be imported under the remapped notetype id.
				note.NotetypeID = remappedNtid
			}
			if err := imp.addNote(note); err != nil {
				return err
			}
		}
	}

	return nil
}

func (imp *Importer) addNote(note domain.Note) error {
	imp.mungeMedia(&note)
	note.Tags = tags.Canonify(note.Tags)
	notetype, err := imp.expectedNotetype(note.NotetypeID)
	if err != nil {
		return err
	}
	imp.prepareFields(&note, notetype)
	note.USN = imp.usn
	sourceID := imp.uniquifyNoteID(&note)

	if err := imp.store.Notes.Add(&note); err != nil {
		return err
	}
	imp.targetIDs[note.ID] = struct{}{}
	imp.imports.logNew(note, sourceID)

	return nil
}

func (imp *Importer) updateNote(note domain.Note, targetID int64) error {
	sourceID := note.ID
	note.ID = targetID
	imp.mungeMedia(&note)
	if err := imp.expectNoteExists(note.ID); err != nil {
		return err
	}
	note.Tags = tags.Canonify(note.Tags)
	notetype, err := imp.expectedNotetype(note.NotetypeID)
	if err != nil {
		return err
	}
	imp.prepareFields(&note, notetype)
	note.USN = imp.usn

	if err := imp.store.Notes.Update(&note); err != nil {
		return err
	}
	imp.imports.logUpdated(note, sourceID)

	return nil
}

// uniquifyNoteID bumps the note's identifier past any identifiers already
// used in the target, returning the original value for cross-referencing.
func (imp *Importer) uniquifyNoteID(note *domain.Note) int64 {
	original := note.ID
	for {
		if _, taken := imp.targetIDs[note.ID]; !taken {
			break
		}
		note.ID += 999
	}
	return original
}

// expectedNotetype loads a notetype that the package claims exists; absence
// means the package and target are inconsistent, which is fatal.
func (imp *Importer) expectedNotetype(ntid int64) (*domain.Notetype, error) {
	notetype, err := imp.store.Notetypes.Get(ntid)
	if err != nil {
		return nil, err
	}
	if notetype == nil {
		return nil, &domain.NotFoundError{Resource: "notetype", ID: ntid}
	}
	return notetype, nil
}

// expectNoteExists verifies that the GUID index and storage agree on a note
// scheduled for update.
func (imp *Importer) expectNoteExists(nid int64) error {
	note, err := imp.store.Notes.Get(nid)
	if err != nil {
		return err
	}
	if note == nil {
		return &domain.NotFoundError{Resource: "note", ID: nid}
	}
	return nil
}

// prepareFields fits the note's field list to the notetype's schema and
// applies Unicode normalization when enabled.
func (imp *Importer) prepareFields(note *domain.Note, notetype *domain.Notetype) {
	want := len(notetype.Fields)
	for len(note.Fields) < want {
		note.Fields = append(note.Fields, "")
	}
	note.Fields = note.Fields[:want]

	if imp.normalizeText {
		for i, field := range note.Fields {
			note.Fields[i] = normalizeText(field)
		}
	}
}

// mungeMedia rewrites embedded media references in every field, before any
// later stage depends on canonical field text.
func (imp *Importer) mungeMedia(note *domain.Note) {
	for i, field := range note.Fields {
		if newField, changed := imp.replaceMediaRefs(field); changed {
			note.Fields[i] = newField
		}
	}
}

func (imp *Importer) replaceMediaRefs(field string) (string, bool) {
	return media.ReplaceRefs(field, func(name string) string {
		normalized, err := media.SafeNormalizedName(name)
		if err != nil {
			// Unsafe name; leave the reference untouched.
			return ""
		}
		if entry, ok := imp.mediaMap.Use(normalized); ok {
			if entry.Name != name {
				// Name is not normalized, and/or remapped.
				return entry.Name
			}
		} else if normalized != name {
			// No entry; might reference a pre-existing file, so ensure
			// normalization.
			return normalized
		}
		return ""
	})
}
