package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient returns scripted responses and records the cursors it saw.
type fakeClient struct {
	responses []*notionapi.DatabaseQueryResponse
	cursors   []notionapi.Cursor
	err       error
	calls     int
}

func (f *fakeClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	f.cursors = append(f.cursors, req.StartCursor)
	if f.err != nil {
		return nil, f.err
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func page(id string) notionapi.Page {
	return notionapi.Page{ID: notionapi.ObjectID(id)}
}

func TestQueryAll_Paginates(t *testing.T) {
	fc := &fakeClient{
		responses: []*notionapi.DatabaseQueryResponse{
			{Results: []notionapi.Page{page("a"), page("b")}, HasMore: true, NextCursor: "cur-1"},
			{Results: []notionapi.Page{page("c")}, HasMore: false},
		},
	}

	pages, err := QueryAll(context.Background(), fc, "db-1")
	require.NoError(t, err)

	require.Len(t, pages, 3)
	assert.Equal(t, notionapi.ObjectID("c"), pages[2].ID)
	require.Len(t, fc.cursors, 2)
	assert.Equal(t, notionapi.Cursor(""), fc.cursors[0])
	assert.Equal(t, notionapi.Cursor("cur-1"), fc.cursors[1])
}

func TestQueryAll_PropagatesError(t *testing.T) {
	fc := &fakeClient{err: assert.AnError}
	_, err := QueryAll(context.Background(), fc, "db-1")
	assert.Error(t, err)
}

func TestFlattenPage(t *testing.T) {
	p := notionapi.Page{
		ID: "page-9",
		Properties: notionapi.Properties{
			"Name": &notionapi.TitleProperty{Title: []notionapi.RichText{
				{PlainText: "Jane "}, {PlainText: "Doe"},
			}},
			"Organisation": &notionapi.RichTextProperty{RichText: []notionapi.RichText{
				{PlainText: "Acme Foundation"},
			}},
			"Email":    &notionapi.EmailProperty{Email: "jane@acme.org"},
			"LinkedIn": &notionapi.URLProperty{URL: "https://linkedin.com/in/janedoe"},
			"Source":   &notionapi.SelectProperty{Select: notionapi.Option{Name: "Founder network"}},
			"Tags": &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{
				{Name: "justice"}, {Name: "youth"},
			}},
			"Phone": &notionapi.PhoneNumberProperty{PhoneNumber: "+61 400 000 000"},
		},
	}

	got := FlattenPage(p)

	assert.Equal(t, "page-9", got["id"])
	assert.Equal(t, "Jane Doe", got["Name"])
	assert.Equal(t, "Acme Foundation", got["Organisation"])
	assert.Equal(t, "jane@acme.org", got["Email"])
	assert.Equal(t, "https://linkedin.com/in/janedoe", got["LinkedIn"])
	assert.Equal(t, "Founder network", got["Source"])
	assert.Equal(t, "justice, youth", got["Tags"])
	assert.Equal(t, "+61 400 000 000", got["Phone"])
}

func TestFlattenPage_SkipsEmptyProperties(t *testing.T) {
	p := notionapi.Page{
		ID: "page-1",
		Properties: notionapi.Properties{
			"Email": &notionapi.EmailProperty{},
			"Name":  &notionapi.TitleProperty{},
		},
	}

	got := FlattenPage(p)
	assert.Equal(t, map[string]string{"id": "page-1"}, got)
}
