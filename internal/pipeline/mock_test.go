package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/source"
)

// fakeAdapter answers with fn and counts calls.
type fakeAdapter struct {
	src   model.Source
	fn    func(ctx context.Context, handle string) model.SourceResult
	calls atomic.Int32
}

func (f *fakeAdapter) Source() model.Source { return f.src }

func (f *fakeAdapter) Fetch(ctx context.Context, handle string) model.SourceResult {
	f.calls.Add(1)
	return f.fn(ctx, handle)
}

type fakeAdapters map[model.Source]source.Adapter

func (f fakeAdapters) Get(src model.Source) source.Adapter {
	a, ok := f[src]
	if !ok {
		return nil
	}
	return a
}

func succeed(src model.Source, payload model.Payload) *fakeAdapter {
	return &fakeAdapter{src: src, fn: func(context.Context, string) model.SourceResult {
		return model.Success(src, payload)
	}}
}

func fail(src model.Source, kind model.ErrorKind) *fakeAdapter {
	return &fakeAdapter{src: src, fn: func(context.Context, string) model.SourceResult {
		return model.Failed(src, kind, "failed")
	}}
}

// hang blocks until the context is done.
func hang(src model.Source) *fakeAdapter {
	return &fakeAdapter{src: src, fn: func(ctx context.Context, _ string) model.SourceResult {
		<-ctx.Done()
		return model.TimedOut(src)
	}}
}

func allSucceed() fakeAdapters {
	return fakeAdapters{
		model.SourceLinkedIn:  succeed(model.SourceLinkedIn, &model.LinkedInProfile{Employment: "Acme", Title: "CFO"}),
		model.SourceInstagram: succeed(model.SourceInstagram, &model.InstagramProfile{Username: "dana", Followers: 2000}),
		model.SourceFacebook:  succeed(model.SourceFacebook, &model.FacebookProfile{Friends: 400}),
		model.SourceTwitter:   succeed(model.SourceTwitter, &model.TwitterProfile{Username: "dana", Followers: 900}),
	}
}

func fullLead(id int64) model.LeadInput {
	return model.LeadInput{
		ID:                id,
		Name:              "Dana",
		Email:             "dana@acme.com",
		Income:            "$200K",
		LinkedInURL:       "https://www.linkedin.com/in/dana",
		InstagramUsername: "dana",
		FacebookURL:       "https://www.facebook.com/dana",
		TwitterUsername:   "@dana",
	}
}
