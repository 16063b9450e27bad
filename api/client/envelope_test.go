package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agrotrade/agrotrade-client/pkg/errors"
)

func TestUnwrapResourceProbeOrder(t *testing.T) {
	type listing struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}

	cases := []struct {
		name string
		body string
	}{
		{name: "nested under data.listing", body: `{"data":{"listing":{"id":1,"title":"Трактор"}}}`},
		{name: "under data", body: `{"data":{"id":1,"title":"Трактор"}}`},
		{name: "top-level listing key", body: `{"listing":{"id":1,"title":"Трактор"}}`},
		{name: "bare object", body: `{"id":1,"title":"Трактор"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got listing
			require.NoError(t, DecodeResource([]byte(tc.body), "listing", &got))
			assert.Equal(t, listing{ID: 1, Title: "Трактор"}, got)
		})
	}
}

func TestUnwrapResourceNestedWinsOverOuter(t *testing.T) {
	body := `{"data":{"listing":{"id":2},"noise":true}}`

	raw, err := UnwrapResource([]byte(body), "listing")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":2}`, string(raw))
}

func TestUnwrapResourceMalformed(t *testing.T) {
	for _, body := range []string{`null`, `[]`, `"nope"`, `{"data":null}`, ``} {
		_, err := UnwrapResource([]byte(body), "listing")
		require.Error(t, err, "body=%q", body)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "body=%q", body)
		assert.Equal(t, pkgerrors.CodeMalformed, typed.Code(), "body=%q", body)
	}
}

func TestUnwrapCollectionShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "under data.listings", body: `{"data":{"listings":[{"id":1}],"meta":{"total":1}}}`},
		{name: "under data.items", body: `{"data":{"items":[{"id":1}]}}`},
		{name: "top-level listings", body: `{"listings":[{"id":1}]}`},
		{name: "data as array", body: `{"data":[{"id":1}]}`},
		{name: "bare array", body: `[{"id":1}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []map[string]any
			require.NoError(t, DecodeCollection([]byte(tc.body), "listings", &got))
			require.Len(t, got, 1)
			assert.EqualValues(t, 1, got[0]["id"])
		})
	}
}

func TestUnwrapCollectionRejectsNonArray(t *testing.T) {
	_, err := UnwrapCollection([]byte(`{"data":{"listings":{"id":1}}}`), "listings")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeMalformed, pkgerrors.As(err).Code())
}

func TestUnwrapMeta(t *testing.T) {
	raw, ok := UnwrapMeta([]byte(`{"data":{"meta":{"total":23,"page":1,"limit":10,"pages":3}}}`))
	require.True(t, ok)

	var meta map[string]int
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, 23, meta["total"])

	raw, ok = UnwrapMeta([]byte(`{"pagination":{"total":5}}`))
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, 5, meta["total"])

	_, ok = UnwrapMeta([]byte(`{"listings":[]}`))
	assert.False(t, ok)
}

func TestDecodeResourceTypeMismatch(t *testing.T) {
	var dest struct {
		ID int64 `json:"id"`
	}
	err := DecodeResource([]byte(`{"data":{"listing":{"id":"not-a-number"}}}`), "listing", &dest)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeMalformed, pkgerrors.As(err).Code())
}
