package session

import (
	"math"

	apperr "github.com/matzehuels/ievis/pkg/errors"
	"github.com/matzehuels/ievis/pkg/geometry"
	"github.com/matzehuels/ievis/pkg/model"
)

// Op names a collaborator command.
type Op string

const (
	OpSetDimension       Op = "setDimension"
	OpSetPosition        Op = "setPosition"
	OpSetRotation        Op = "setRotation"
	OpSetRelationship    Op = "setRelationship"
	OpRemoveRelationship Op = "removeRelationship"
	OpDeleteElement      Op = "deleteElement"
)

// Command is a decoded collaborator command. Only the fields used by Op are
// read. When Generation is set the command is refused unless it matches the
// session's current generation.
type Command struct {
	Op           Op              `json:"op"`
	Element      string          `json:"element,omitempty"`
	Dimension    string          `json:"dimension,omitempty"`
	Value        *float64        `json:"value,omitempty"`
	Position     *model.Vec3     `json:"position,omitempty"`
	Rotation     *model.Rotation `json:"rotation,omitempty"`
	Participants []string        `json:"participants,omitempty"`
	Type         string          `json:"type,omitempty"`
	Nature       string          `json:"nature,omitempty"`
	Generation   *uint64         `json:"generation,omitempty"`
}

// Apply runs cmd against the session. The generation check and the
// command run under one hold of the session lock, so a concurrent [Load]
// cannot slip in between.
func (s *Session) Apply(cmd Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cmd.Generation != nil && *cmd.Generation != s.generation {
		return apperr.New(apperr.ErrCodeStaleGeneration, "command for generation %d, session is at %d", *cmd.Generation, s.generation)
	}

	switch cmd.Op {
	case OpSetDimension:
		if cmd.Value == nil {
			return apperr.New(apperr.ErrCodeInvalidCommand, "%s needs a value", cmd.Op)
		}
		return s.setDimension(cmd.Element, cmd.Dimension, *cmd.Value)
	case OpSetPosition:
		if cmd.Position == nil {
			return apperr.New(apperr.ErrCodeInvalidCommand, "%s needs a position", cmd.Op)
		}
		return s.setPosition(cmd.Element, *cmd.Position)
	case OpSetRotation:
		return s.setRotation(cmd.Element, cmd.Rotation)
	case OpSetRelationship:
		var nature *model.Nature
		if cmd.Nature != "" {
			n, ok := model.ParseNature(cmd.Nature)
			if !ok {
				return apperr.New(apperr.ErrCodeInvalidCommand, "bad nature %q", cmd.Nature)
			}
			nature = &n
		}
		return s.setRelationship(cmd.Participants, model.RelationType(cmd.Type), nature)
	case OpRemoveRelationship:
		return s.removeRelationship(cmd.Participants)
	case OpDeleteElement:
		return s.deleteElement(cmd.Element)
	}
	return apperr.New(apperr.ErrCodeInvalidCommand, "unknown command %q", cmd.Op)
}

// SetDimension changes one dimension of an element and rebuilds its solid
// from the whole descriptor. The value must be positive and finite. When
// synthesis fails the element keeps its previous geometry and solid.
func (s *Session) SetDimension(id, name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setDimension(id, name, value)
}

// SetPosition moves an element's corner.
func (s *Session) SetPosition(id string, corner model.Vec3) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setPosition(id, corner)
}

// SetRotation sets, or with nil clears, the rotation of an element.
func (s *Session) SetRotation(id string, r *model.Rotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRotation(id, r)
}

// SetRelationship creates or updates the relationship between participants.
// A nil nature keeps the existing one.
func (s *Session) SetRelationship(participants []string, typ model.RelationType, nature *model.Nature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRelationship(participants, typ, nature)
}

// RemoveRelationship removes the relationship between participants.
func (s *Session) RemoveRelationship(participants []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeRelationship(participants)
}

// DeleteElement removes an element, every relationship naming it and its
// solid.
func (s *Session) DeleteElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteElement(id)
}

// The lower-case commands below expect s.mu to be held.

func (s *Session) setDimension(id, name string, value float64) error {
	if name == "" {
		return apperr.New(apperr.ErrCodeInvalidCommand, "dimension name is empty")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return apperr.New(apperr.ErrCodeInvalidDimension, "dimension %s of %s must be positive, got %v", name, id, value)
	}
	e, ok := s.graph.Element(id)
	if !ok {
		return apperr.New(apperr.ErrCodeElementNotFound, "element %q not found", id)
	}
	if e.Geometry == nil {
		return apperr.New(apperr.ErrCodeInvalidElement, "element %q has no geometry", id)
	}

	geom := e.Geometry.WithDimension(name, value)
	solid, err := geometry.Synthesize(geom)
	if err != nil {
		return err
	}
	if err := s.graph.SetGeometry(id, geom); err != nil {
		return err
	}
	s.solids[id] = solid
	s.revision++
	return nil
}

func (s *Session) setPosition(id string, corner model.Vec3) error {
	if err := s.graph.SetPosition(id, corner); err != nil {
		return err
	}
	s.revision++
	return nil
}

func (s *Session) setRotation(id string, r *model.Rotation) error {
	if err := s.graph.SetRotation(id, r); err != nil {
		return err
	}
	s.revision++
	return nil
}

func (s *Session) setRelationship(participants []string, typ model.RelationType, nature *model.Nature) error {
	var opts []model.RelationshipOption
	if nature != nil {
		opts = append(opts, model.WithNature(*nature))
	}
	if _, err := s.graph.SetRelationship(participants, typ, opts...); err != nil {
		return err
	}
	s.generation++
	s.revision++
	return nil
}

func (s *Session) removeRelationship(participants []string) error {
	if !s.graph.RemoveRelationship(participants) {
		return apperr.New(apperr.ErrCodeNotFound, "no relationship %s", model.KeyOf(participants...))
	}
	s.generation++
	s.revision++
	return nil
}

func (s *Session) deleteElement(id string) error {
	if err := s.graph.DeleteElement(id); err != nil {
		return err
	}
	delete(s.solids, id)
	s.generation++
	s.revision++
	return nil
}
