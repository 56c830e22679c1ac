package admin

import (
	"context"

	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/models"
)

// SubscriberSearch matches against "email status".
const SubscriberSearch = "search"

// Users is the account list.
type Users struct {
	List *listing.Controller[models.User]
	deps Deps
}

func NewUsers(d Deps) *Users {
	d = d.withDefaults()
	return &Users{
		deps: d,
		List: listing.New(listing.Config[models.User]{
			Name: "users",
			Load: func(ctx context.Context) ([]models.User, error) {
				return d.Client.Users(ctx, nil)
			},
			Notifier: d.Notifier,
			Logger:   d.Logger,
		}),
	}
}

func (u *Users) Delete(ctx context.Context, id string) error {
	return remove(ctx, u.deps, u.List, "User", id, u.deps.Client.DeleteUser)
}

// Subscribers is the newsletter list.
type Subscribers struct {
	List *listing.Controller[models.Subscriber]
	deps Deps
}

func NewSubscribers(d Deps) *Subscribers {
	d = d.withDefaults()
	return &Subscribers{
		deps: d,
		List: listing.New(listing.Config[models.Subscriber]{
			Name: "subscribers",
			Load: func(ctx context.Context) ([]models.Subscriber, error) {
				return d.Client.Subscribers(ctx, nil)
			},
			Filters: []listing.Predicate[models.Subscriber]{
				listing.Contains(SubscriberSearch, models.Subscriber.SearchText),
			},
			Notifier: d.Notifier,
			Logger:   d.Logger,
		}),
	}
}

func (s *Subscribers) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.deps, s.List, "Subscriber", id, s.deps.Client.DeleteSubscriber)
}
