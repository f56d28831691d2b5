package events

import (
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/db"
	"github.com/Beamline-Tech/beamline/internal/model"
)

// Bus is the slice of the event bus the publisher needs.
type Bus interface {
	Publish(topic string, e Event)
}

// Publisher wraps every mutating registry operation on content and TVs.
// After a successful write it emits the typed change event and mirrors the
// change into the activity log. A failed write emits nothing and surfaces the
// store error unchanged; retry is the caller's concern.
type Publisher struct {
	store db.Store
	bus   Bus
}

func NewPublisher(store db.Store, bus Bus) *Publisher {
	return &Publisher{store: store, bus: bus}
}

func (p *Publisher) CreateContent(c model.Content) (model.Content, error) {
	out, err := p.store.CreateContent(c)
	if err != nil {
		return model.Content{}, err
	}
	p.emit(ContentCreated{Content: out}, out.SelectedTvs)
	p.logActivity(model.ActivitySuccess, "Content created successfully")
	return out, nil
}

func (p *Publisher) UpdateContent(id string, upd db.ContentUpdate) (model.Content, error) {
	out, err := p.store.UpdateContent(id, upd)
	if err != nil {
		return model.Content{}, err
	}
	p.emit(ContentUpdated{Content: out}, out.SelectedTvs)
	p.logActivity(model.ActivityInfo, "Content updated successfully")
	return out, nil
}

func (p *Publisher) DeleteContent(id string) error {
	// target list is needed for targeted delivery after the row is gone
	var targets []string
	if existing, err := p.store.GetContentByID(id); err == nil {
		targets = existing.SelectedTvs
	}
	if err := p.store.DeleteContent(id); err != nil {
		return err
	}
	p.emit(ContentDeleted{ID: id}, targets)
	p.logActivity(model.ActivityWarning, "Content deleted")
	return nil
}

func (p *Publisher) CreateTV(name string, description *string, macAddress, createdBy string) (model.TV, error) {
	tv, err := p.store.CreateTV(name, description, macAddress, createdBy)
	if err != nil {
		return model.TV{}, err
	}
	p.emit(TVCreated{TV: tv}, nil)
	p.logActivity(model.ActivitySuccess, "TV registered successfully")
	return tv, nil
}

func (p *Publisher) UpdateTV(id string, upd db.TVUpdate) (model.TV, error) {
	tv, err := p.store.UpdateTV(id, upd)
	if err != nil {
		return model.TV{}, err
	}
	p.emit(TVUpdated{TV: tv}, []string{tv.ID})
	p.logActivity(model.ActivityInfo, "TV updated successfully")
	return tv, nil
}

func (p *Publisher) DeleteTV(id string) error {
	if err := p.store.DeleteTV(id); err != nil {
		return err
	}
	p.emit(TVDeleted{ID: id}, []string{id})
	p.logActivity(model.ActivityWarning, "TV deleted")
	return nil
}

// emit fans the event out to the global topic and to each named device topic.
func (p *Publisher) emit(e Event, deviceTopics []string) {
	p.bus.Publish(GlobalTopic, e)
	for _, topic := range deviceTopics {
		p.bus.Publish(topic, e)
	}
}

// logActivity appends the human-readable mirror of a structural change and
// pushes it to the live activity feed. The log is observational, so a failed
// append is logged and swallowed.
func (p *Publisher) logActivity(category, message string) {
	entry, err := p.store.AppendActivity(category, message)
	if err != nil {
		log.Error().Err(err).Str("message", message).Msg("failed to record activity")
		return
	}
	p.bus.Publish(GlobalTopic, ActivityLogged{Entries: []model.Activity{entry}})
}
