package catalogue

import (
	"context"
	"fmt"

	"github.com/stagebase/stagebase/engine/cypher"
	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/engine/identity"
	"github.com/stagebase/stagebase/engine/queries"
	"github.com/stagebase/stagebase/engine/shape"
	"github.com/stagebase/stagebase/pkg/fn"
	"github.com/stagebase/stagebase/pkg/metrics"
	"github.com/stagebase/stagebase/pkg/repo"
)

// kind is the operation set of one model, parameterised by its input type.
type kind[T Input] struct {
	c     *Catalogue
	model domain.Model
	newIn func() T
	write func(t *queries.Templates, in T, create bool) *cypher.Query
	// guard runs the store-backed checks beyond identity uniqueness.
	guard  func(ctx context.Context, r repo.Runner, in T, depth int) (domain.Errors, error)
	view   func(r repo.Row, opts shape.Options) (any, error)
	edit   func(r repo.Row) any
	listed func(r repo.Row, opts shape.Options) (any, error)
}

func (c *Catalogue) register() {
	add := func(o Operations) { c.kinds[o.Model()] = o }

	add(&kind[*domain.MaterialInput]{
		c: c, model: domain.ModelMaterial,
		newIn: func() *domain.MaterialInput { return new(domain.MaterialInput) },
		write: (*queries.Templates).MaterialWrite,
		guard: guardMaterial,
		view:  viewOf(shape.MaterialView),
		edit:  func(r repo.Row) any { return shape.MaterialEdit(r) },
		listed: func(r repo.Row, opts shape.Options) (any, error) {
			return shape.Material(r, opts)
		},
	})
	add(&kind[*domain.ProductionInput]{
		c: c, model: domain.ModelProduction,
		newIn: func() *domain.ProductionInput { return new(domain.ProductionInput) },
		write: (*queries.Templates).ProductionWrite,
		guard: func(ctx context.Context, r repo.Runner, in *domain.ProductionInput, depth int) (domain.Errors, error) {
			return identity.SubProductions.GuardUUIDs(ctx, r, in.ID(), "subProductions", depth, in.SubProductions)
		},
		view: viewOf(shape.ProductionView),
		edit: func(r repo.Row) any { return shape.ProductionEdit(r) },
		listed: func(r repo.Row, opts shape.Options) (any, error) {
			return shape.Production(r, opts)
		},
	})
	add(&kind[*domain.VenueInput]{
		c: c, model: domain.ModelVenue,
		newIn: func() *domain.VenueInput { return new(domain.VenueInput) },
		write: (*queries.Templates).VenueWrite,
		guard: func(ctx context.Context, r repo.Runner, in *domain.VenueInput, depth int) (domain.Errors, error) {
			return identity.SubVenues.Guard(ctx, r, in.ID(), "subVenues", depth, in.SubVenues)
		},
		view:   viewOf(shape.VenueView),
		edit:   func(r repo.Row) any { return shape.VenueEdit(r) },
		listed: func(r repo.Row, _ shape.Options) (any, error) { return shape.VenueListed(r), nil },
	})
	add(basic(c, domain.ModelPerson, viewOf(shape.PersonView)))
	add(basic(c, domain.ModelCompany, viewOf(shape.CompanyView)))
	add(basic(c, domain.ModelCharacter, viewOf(shape.CharacterView)))
	add(basic(c, domain.ModelAward, func(r repo.Row, _ shape.Options) (any, error) {
		return shape.AwardView(r), nil
	}))
	add(&kind[*domain.AwardCeremonyInput]{
		c: c, model: domain.ModelAwardCeremony,
		newIn: func() *domain.AwardCeremonyInput { return new(domain.AwardCeremonyInput) },
		write: (*queries.Templates).AwardCeremonyWrite,
		guard: guardCeremony,
		view: func(r repo.Row, _ shape.Options) (any, error) {
			return shape.AwardCeremonyView(r), nil
		},
		edit:   func(r repo.Row) any { return shape.AwardCeremonyEdit(r) },
		listed: func(r repo.Row, _ shape.Options) (any, error) { return shape.CeremonyListed(r), nil },
	})
}

func viewOf[V any](f func(repo.Row, shape.Options) (V, error)) func(repo.Row, shape.Options) (any, error) {
	return func(r repo.Row, opts shape.Options) (any, error) { return f(r, opts) }
}

// basic builds an identity-only kind.
func basic(c *Catalogue, m domain.Model, view func(repo.Row, shape.Options) (any, error)) *kind[*domain.BasicInput] {
	return &kind[*domain.BasicInput]{
		c: c, model: m,
		newIn: func() *domain.BasicInput { return new(domain.BasicInput) },
		write: func(_ *queries.Templates, in *domain.BasicInput, create bool) *cypher.Query {
			return queries.BasicWrite(m, in, create)
		},
		view: view,
		edit: func(r repo.Row) any { return shape.BasicEdit(r) },
		listed: func(r repo.Row, _ shape.Options) (any, error) {
			return shape.Summary(r, m), nil
		},
	}
}

func guardMaterial(ctx context.Context, r repo.Runner, in *domain.MaterialInput, depth int) (domain.Errors, error) {
	errs, err := identity.SubMaterials.Guard(ctx, r, in.ID(), "subMaterials", depth, in.SubMaterials)
	if err != nil || in.OriginalVersionMaterial.IsZero() {
		return errs, err
	}
	more, err := identity.OriginalVersion.GuardOne(ctx, r, in.ID(), "originalVersionMaterial", depth, in.OriginalVersionMaterial)
	if err != nil {
		return nil, err
	}
	errs.Merge("", more)
	return errs, nil
}

// guardCeremony reports nominated productions whose uuids match no production.
func guardCeremony(ctx context.Context, r repo.Runner, in *domain.AwardCeremonyInput, _ int) (domain.Errors, error) {
	var ids []string
	for _, cat := range in.Categories {
		for _, nom := range cat.Nominations {
			for _, p := range nom.Productions {
				if domain.ValidUUID(p.UUID) {
					ids = append(ids, p.UUID)
				}
			}
		}
	}
	unknown, err := identity.Unknown(ctx, r, domain.ModelProduction, fn.Unique(ids))
	if err != nil || len(unknown) == 0 {
		return nil, err
	}
	var errs domain.Errors
	for i, cat := range in.Categories {
		for j, nom := range cat.Nominations {
			for k, p := range nom.Productions {
				if unknown[p.UUID] {
					errs.Add(domain.Path("categories", i, "nominations", j, "productions", k, "uuid"), domain.MsgUnknownUUID)
				}
			}
		}
	}
	return errs, nil
}

func (k *kind[T]) Model() domain.Model { return k.model }

func (k *kind[T]) NewInput() Input { return k.newIn() }

func (k *kind[T]) input(in Input) (T, error) {
	t, ok := in.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("catalogue: %s does not accept %T", k.model, in)
	}
	return t, nil
}

// check runs every validation of in against the store. A new entity resolves
// its identity first; an existing one only needs it to be free of others.
func (k *kind[T]) check(ctx context.Context, r repo.Runner, in T, create bool) (domain.Errors, error) {
	errs := in.Validate()
	if create {
		if err := identity.ResolveNew(ctx, r, k.model, in.Ident(), in.ID()); err != nil {
			dup, ok := identity.FieldErrors(err)
			if !ok {
				return nil, err
			}
			errs.Merge("", dup)
		}
	} else {
		dup, err := identity.CheckUnique(ctx, r, k.model, in.Ident(), in.ID())
		if err != nil {
			return nil, err
		}
		errs.Merge("", dup)
	}
	if k.guard != nil {
		more, err := k.guard(ctx, r, in, k.c.depth)
		if err != nil {
			return nil, err
		}
		errs.Merge("", more)
	}
	return errs, nil
}

func (k *kind[T]) Validate(ctx context.Context, in Input) (Input, error) {
	t, err := k.input(in)
	if err != nil {
		return nil, err
	}
	ctx, done := k.c.begin(ctx, k.model, OpValidate)
	t.Normalize()
	var errs domain.Errors
	err = k.c.store.Read(ctx, func(ctx context.Context, r repo.Runner) error {
		var err error
		errs, err = k.check(ctx, r, t, t.ID() == "")
		return err
	})
	if err != nil {
		err = fail(OpValidate, err)
		done(t.ID(), outcome(err, false), err)
		return nil, err
	}
	t.SetErrors(errs)
	done(t.ID(), outcome(nil, !errs.Empty()), nil)
	return t, nil
}

func (k *kind[T]) Create(ctx context.Context, in Input) (any, error) {
	return k.save(ctx, in, "", true)
}

func (k *kind[T]) Update(ctx context.Context, uuid string, in Input) (any, error) {
	return k.save(ctx, in, uuid, false)
}

// save validates and writes in, then reads the entity back, all in one write
// transaction.
func (k *kind[T]) save(ctx context.Context, in Input, uuid string, create bool) (any, error) {
	t, err := k.input(in)
	if err != nil {
		return nil, err
	}
	op := OpUpdate
	if create {
		op = OpCreate
		uuid = k.c.newID()
	}
	ctx, done := k.c.begin(ctx, k.model, op)
	t.Normalize()
	t.SetID(uuid)

	var out any
	var invalid bool
	err = k.c.store.Write(ctx, func(ctx context.Context, r repo.Runner) error {
		out, invalid = nil, false
		if !create {
			found, err := identity.Exists(ctx, r, k.model, uuid)
			if err != nil {
				return err
			}
			if !found {
				return domain.NewNotFound(k.model, uuid)
			}
		}
		errs, err := k.check(ctx, r, t, create)
		if err != nil {
			return err
		}
		if !errs.Empty() {
			t.SetErrors(errs)
			out, invalid = t, true
			return nil
		}
		text, params := k.write(k.c.tpl, t, create).Render()
		if _, err := run(ctx, r, op, text, params); err != nil {
			return err
		}
		out, err = k.show(ctx, r, uuid)
		return err
	})
	if errs, ok := identity.FieldErrors(err); ok {
		t.SetErrors(errs)
		out, invalid, err = t, true, nil
	}
	if err != nil {
		err = fail(op, err)
		done(uuid, outcome(err, false), err)
		return nil, err
	}
	if invalid && create {
		t.SetID("")
	}
	if !invalid {
		id := t.Ident()
		k.c.publish(ctx, Event{Model: k.model, UUID: uuid, Name: id.Name, Differentiator: id.Differentiator, Op: op})
	}
	done(uuid, outcome(nil, invalid), nil)
	return out, nil
}

func (k *kind[T]) show(ctx context.Context, r repo.Runner, uuid string) (any, error) {
	q, err := k.c.tpl.Show(k.model, uuid)
	if err != nil {
		return nil, err
	}
	row, err := k.single(ctx, r, OpShow, q, uuid)
	if err != nil {
		return nil, err
	}
	return k.view(row, k.c.shapeOpts())
}

func (k *kind[T]) single(ctx context.Context, r repo.Runner, op string, q *cypher.Query, uuid string) (repo.Row, error) {
	text, params := q.Render()
	rows, err := run(ctx, r, op, text, params)
	if err != nil {
		return nil, err
	}
	row, ok, err := shape.Single(rows)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFound(k.model, uuid)
	}
	return row, nil
}

func (k *kind[T]) Show(ctx context.Context, uuid string) (any, error) {
	ctx, done := k.c.begin(ctx, k.model, OpShow)
	var out any
	err := k.c.store.Read(ctx, func(ctx context.Context, r repo.Runner) error {
		var err error
		out, err = k.show(ctx, r, uuid)
		return err
	})
	if err != nil {
		err = fail(OpShow, err)
		done(uuid, outcome(err, false), err)
		return nil, err
	}
	done(uuid, metrics.OutcomeOK, nil)
	return out, nil
}

func (k *kind[T]) Edit(ctx context.Context, uuid string) (any, error) {
	ctx, done := k.c.begin(ctx, k.model, OpEdit)
	q, err := k.c.tpl.Edit(k.model, uuid)
	if err != nil {
		done(uuid, outcome(err, false), err)
		return nil, err
	}
	var out any
	err = k.c.store.Read(ctx, func(ctx context.Context, r repo.Runner) error {
		row, err := k.single(ctx, r, OpEdit, q, uuid)
		if err != nil {
			return err
		}
		out = k.edit(row)
		return nil
	})
	if err != nil {
		err = fail(OpEdit, err)
		done(uuid, outcome(err, false), err)
		return nil, err
	}
	done(uuid, metrics.OutcomeOK, nil)
	return out, nil
}

// Delete removes the entity unless an association blocks it, in which case
// nothing changes and the blocking associations come back as errors.
func (k *kind[T]) Delete(ctx context.Context, uuid string) (domain.Deleted, error) {
	ctx, done := k.c.begin(ctx, k.model, OpDelete)
	var out domain.Deleted
	err := k.c.store.Write(ctx, func(ctx context.Context, r repo.Runner) error {
		out = domain.Deleted{}
		row, err := k.single(ctx, r, OpDelete, queries.Associations(k.model, uuid), uuid)
		if err != nil {
			return err
		}
		out.Header = domain.Header{
			Model:          k.model,
			UUID:           uuid,
			Name:           shape.Str(row, "name"),
			Differentiator: shape.Str(row, "differentiator"),
		}
		if blocked := shape.Strings(row, "associations"); len(blocked) > 0 {
			var errs domain.Errors
			for _, a := range blocked {
				errs.Add("associations", a)
			}
			out.SetErrors(errs)
			return nil
		}
		text, params := queries.Delete(k.model, uuid).Render()
		_, err = run(ctx, r, OpDelete, text, params)
		return err
	})
	if err != nil {
		err = fail(OpDelete, err)
		done(uuid, outcome(err, false), err)
		return domain.Deleted{}, err
	}
	if !out.HasErrors {
		k.c.publish(ctx, Event{Model: k.model, UUID: uuid, Name: out.Name, Differentiator: out.Differentiator, Op: OpDelete})
	}
	done(uuid, outcome(nil, out.HasErrors), nil)
	return out, nil
}

func (k *kind[T]) List(ctx context.Context, opts repo.ListOpts) ([]any, error) {
	ctx, done := k.c.begin(ctx, k.model, OpList)
	q, err := k.c.tpl.List(k.model, opts)
	if err != nil {
		done("", outcome(err, false), err)
		return nil, err
	}
	out := []any{}
	err = k.c.store.Read(ctx, func(ctx context.Context, r repo.Runner) error {
		out = out[:0]
		text, params := q.Render()
		rows, err := run(ctx, r, OpList, text, params)
		if err != nil {
			return err
		}
		for _, row := range rows {
			item, err := k.listed(row, k.c.shapeOpts())
			if err != nil {
				return err
			}
			out = append(out, item)
		}
		return nil
	})
	if err != nil {
		err = fail(OpList, err)
		done("", outcome(err, false), err)
		return nil, err
	}
	done("", metrics.OutcomeOK, nil)
	return out, nil
}
