package blog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// OrchestratorConfig holds the collaborators of an Orchestrator
type OrchestratorConfig struct {
	Entries     EntryService
	Comments    CommentService
	Voting      VotingService
	Permissions PermissionService
	Notifier    Notifier
	Users       CurrentUserProvider
	Metrics     *Metrics
	Logger      *slog.Logger
	Locale      Locale

	// RequestTimeout bounds each service call. Zero means no bound.
	RequestTimeout time.Duration
}

// Orchestrator turns request actions into service calls and dispatches the
// outcome: one success action, or a fail action immediately followed by an
// ApplicationError. Every request gets its own call; nothing is deduplicated
// and nothing is retried.
type Orchestrator struct {
	cfg        OrchestratorConfig
	dispatcher Dispatcher
	selectors  *Selectors
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewOrchestrator creates an orchestrator posting outcomes to dispatcher.
// selectors is used for the cached single-entry lookup; pass the store's set.
func NewOrchestrator(cfg OrchestratorConfig, dispatcher Dispatcher, selectors *Selectors) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if selectors == nil {
		selectors = NewSelectors()
	}
	if cfg.Locale == "" {
		cfg.Locale = LocaleGerman
	}
	return &Orchestrator{
		cfg:        cfg,
		dispatcher: dispatcher,
		selectors:  selectors,
		logger:     logger,
	}
}

// Handle starts the effect for action, if it has one. state is the state
// after the reducer applied action.
func (o *Orchestrator) Handle(ctx context.Context, action Action, state *State) {
	switch a := action.(type) {
	case LoadEntries:
		ids := append([]int64(nil), a.IDs...)
		o.run(ctx, OpLoadEntries, 0, func(ctx context.Context) (Action, error) {
			entries, err := o.cfg.Entries.GetEntries(ctx, ids)
			if err != nil {
				return nil, err
			}
			return LoadEntriesSuccess{Entries: entries}, nil
		}, func(err error) Action { return LoadEntriesFail{Err: err} })

	case LoadEntry:
		// Entries already in the list are served from memory; they may be older
		// than the server copy.
		if cached := o.selectors.EntryByID(state, a.EntryID); cached != nil {
			o.cfg.Metrics.observe(OpLoadEntry, outcomeCached, 0)
			o.dispatcher.Dispatch(LoadEntrySuccess{Entry: cached.Clone()})
			return
		}
		id := a.EntryID
		o.run(ctx, OpLoadEntry, id, func(ctx context.Context) (Action, error) {
			entry, err := o.cfg.Entries.GetEntry(ctx, id)
			if err != nil {
				return nil, err
			}
			return LoadEntrySuccess{Entry: entry}, nil
		}, func(err error) Action { return LoadEntryFail{Err: err, EntryID: id} })

	case LoadComments:
		id := a.EntryID
		o.run(ctx, OpLoadComments, id, func(ctx context.Context) (Action, error) {
			comments, err := o.cfg.Comments.GetComments(ctx, id)
			if err != nil {
				return nil, err
			}
			return LoadCommentsSuccess{Comments: comments}, nil
		}, func(err error) Action { return LoadCommentsFail{Err: err} })

	case LoadVotingExperience:
		o.run(ctx, OpLoadVotingExperience, 0, func(ctx context.Context) (Action, error) {
			experience, err := o.cfg.Voting.GetVotingExperience(ctx)
			if err != nil {
				return nil, err
			}
			return LoadVotingExperienceSuccess{Experience: experience}, nil
		}, func(err error) Action { return LoadVotingExperienceFail{Err: err} })

	case LikeEntry:
		entry, user := a.Entry, a.User
		o.run(ctx, OpLikeEntry, entryID(entry), func(ctx context.Context) (Action, error) {
			if err := o.cfg.Entries.LikeEntry(ctx, entryID(entry), user); err != nil {
				return nil, err
			}
			return LikeEntrySuccess{Entry: entry, User: user}, nil
		}, func(err error) Action { return LikeEntryFail{Err: err} })

	case UnlikeEntry:
		entry, user := a.Entry, a.User
		o.run(ctx, OpUnlikeEntry, entryID(entry), func(ctx context.Context) (Action, error) {
			if err := o.cfg.Entries.UnlikeEntry(ctx, entryID(entry), user); err != nil {
				return nil, err
			}
			return UnlikeEntrySuccess{Entry: entry, User: user}, nil
		}, func(err error) Action { return UnlikeEntryFail{Err: err} })

	case RateEntry:
		entry, user, rating := a.Entry, a.User, a.Rating
		o.run(ctx, OpRateEntry, entryID(entry), func(ctx context.Context) (Action, error) {
			if err := o.cfg.Entries.RateEntry(ctx, entryID(entry), user, rating); err != nil {
				return nil, err
			}
			return RateEntrySuccess{Entry: entry, User: user, Rating: rating}, nil
		}, func(err error) Action { return RateEntryFail{Err: err} })

	case AddComment:
		entry, user, text := a.Entry, a.User, a.Text
		o.run(ctx, OpAddComment, entryID(entry), func(ctx context.Context) (Action, error) {
			comment, err := o.cfg.Comments.AddComment(ctx, entryID(entry), user, text)
			if err != nil {
				return nil, err
			}
			return AddCommentSuccess{Comment: *comment}, nil
		}, func(err error) Action { return AddCommentFail{Err: err} })

	case LoadPermissions:
		o.run(ctx, OpLoadPermissions, 0, func(ctx context.Context) (Action, error) {
			if o.cfg.Users == nil {
				return nil, ErrNoCurrentUser
			}
			user, ok := o.cfg.Users.CurrentUser(ctx)
			if !ok {
				return nil, ErrNoCurrentUser
			}
			permission, err := o.cfg.Permissions.GetPermissions(ctx, user)
			if err != nil {
				return nil, err
			}
			return LoadPermissionsSuccess{Permission: permission}, nil
		}, func(err error) Action { return LoadPermissionsFail{Err: err} })

	case ApplicationError:
		if o.cfg.Notifier != nil {
			o.cfg.Notifier.Notify(ctx, Notification{Message: a.Message})
		}
	}
}

// Wait blocks until every started service call has dispatched its outcome
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// run performs call on its own goroutine. The call is detached from ctx
// cancellation: requests are not aborted when the store stops.
func (o *Orchestrator) run(ctx context.Context, op Operation, id int64, call func(context.Context) (Action, error), fail func(error) Action) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		callCtx := context.WithoutCancel(ctx)
		if o.cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(callCtx, o.cfg.RequestTimeout)
			defer cancel()
		}

		start := time.Now()
		success, err := invoke(callCtx, call)
		elapsed := time.Since(start)

		if err != nil {
			o.cfg.Metrics.observe(op, outcomeFailure, elapsed)
			o.logger.Error("blog effect failed",
				"operation", op,
				"entry_id", id,
				"error", err)
			o.dispatcher.Dispatch(
				fail(err),
				ApplicationError{Message: FailureMessage(o.cfg.Locale, op, id)},
			)
			return
		}

		o.cfg.Metrics.observe(op, outcomeSuccess, elapsed)
		o.logger.Debug("blog effect succeeded",
			"operation", op,
			"entry_id", id,
			"duration", elapsed)
		o.dispatcher.Dispatch(success)
	}()
}

// invoke runs call and turns a panic into an error
func invoke(ctx context.Context, call func(context.Context) (Action, error)) (action Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			action = nil
			err = fmt.Errorf("%w: %v", ErrEffectPanicked, r)
		}
	}()
	return call(ctx)
}

func entryID(e *Entry) int64 {
	if e == nil {
		return 0
	}
	return e.ID
}
