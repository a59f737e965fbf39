package vlb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("logs in and uses token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/login":
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
				assert.Empty(t, r.Header.Get("Authorization"))

				var creds map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "reader", creds["username"])
				assert.Equal(t, "secret", creds["password"])

				fmt.Fprint(w, "abc123\n")
			case "/publisher/5108480":
				assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
				fmt.Fprint(w, `{"mvbId":"5108480","name":"Suhrkamp Verlag"}`)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		client, err := NewClient(ctx, "reader", "secret", logger, WithBaseURL(server.URL+"/"))
		require.NoError(t, err)
		assert.Equal(t, "abc123", client.Token())
		assert.Equal(t, server.URL, client.BaseURL())

		publisher, err := client.GetPublisher(ctx, "5108480")
		require.NoError(t, err)
		assert.Equal(t, "Suhrkamp Verlag", publisher.Name)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"unauthorized","error_description":"Bad credentials"}`)
		}))
		defer server.Close()

		_, err := NewClient(ctx, "reader", "wrong", logger, WithBaseURL(server.URL))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrProtocol))
		assert.True(t, IsUnauthorized(err))
		assert.Contains(t, err.Error(), "Bad credentials")
	})

	t.Run("empty token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		_, err := NewClient(ctx, "reader", "secret", logger, WithBaseURL(server.URL))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAPI))
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewClient(ctx, "", "secret", logger)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrArgument))
		assert.Contains(t, err.Error(), "username is required")

		_, err = NewClient(ctx, "reader", "", logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password is required")
	})
}

func TestNewClientWithToken(t *testing.T) {
	_, err := NewClientWithToken("  ", zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArgument))

	client, err := NewClientWithToken(" tok ", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "tok", client.Token())
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClientWithToken("tok", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClientWithToken("tok", logger, WithHTTPClient(custom), WithTimeout(time.Second))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient)
	})

	t.Run("with rate limit", func(t *testing.T) {
		client, err := NewClientWithToken("tok", logger, WithRateLimit(2, 0))
		require.NoError(t, err)
		require.NotNil(t, client.limiter)
		assert.Equal(t, 1, client.limiter.Burst())

		client, err = NewClientWithToken("tok", logger, WithRateLimit(0, 5))
		require.NoError(t, err)
		assert.Nil(t, client.limiter)
	})

	t.Run("with concurrency", func(t *testing.T) {
		client, err := NewClientWithToken("tok", logger, WithConcurrency(8))
		require.NoError(t, err)
		assert.Equal(t, 8, client.concurrency)

		client, err = NewClientWithToken("tok", logger, WithConcurrency(0))
		require.NoError(t, err)
		assert.Equal(t, DefaultConcurrency, client.concurrency)
	})

	t.Run("with user agent", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "catalog-sync/1.0", r.Header.Get("User-Agent"))
			fmt.Fprint(w, `{"mvbId":"1","name":"x"}`)
		}, WithUserAgent("catalog-sync/1.0"))

		_, err := client.GetPublisher(context.Background(), "1")
		require.NoError(t, err)
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("by isbn13 in long format", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/product/9783518368503/isbn13", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			fmt.Fprint(w, `{"id":"abc","title":"Der Steppenwolf","isbn":"9783518368503","pages":288}`)
		})

		product, err := client.GetProduct(ctx, "9783518368503", ProductOptions{IDType: IDTypeISBN13, Format: FormatLong})
		require.NoError(t, err)
		assert.Equal(t, "Der Steppenwolf", product.Title)
		assert.Equal(t, "9783518368503", product.Identifier())

		fields, err := product.Fields()
		require.NoError(t, err)
		assert.Equal(t, float64(288), fields["pages"])
	})

	t.Run("without id type in short format", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/product/abc", r.URL.Path)
			assert.Equal(t, "application/json-short", r.Header.Get("Accept"))
			fmt.Fprint(w, `{"id":"abc","title":"Siddhartha"}`)
		})

		product, err := client.GetProduct(ctx, "abc", ProductOptions{})
		require.NoError(t, err)
		assert.Equal(t, "abc", product.Identifier())
	})

	t.Run("invalid id type", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		})

		_, err := client.GetProduct(ctx, "abc", ProductOptions{IDType: "isbn10"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrArgument))
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("unknown format", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		})

		_, err := client.GetProduct(ctx, "abc", ProductOptions{Format: Format(7)})
		assert.ErrorIs(t, err, ErrArgument)

		_, err = client.GetProducts(ctx, []string{"a", "b"}, ProductOptions{Format: Format(7)})
		assert.ErrorIs(t, err, ErrArgument)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("empty id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		_, err := client.GetProduct(ctx, " ", ProductOptions{})
		assert.True(t, errors.Is(err, ErrArgument))
	})

	t.Run("embedded error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error":"not_found","error_description":"no product with this id"}`)
		})

		_, err := client.GetProduct(ctx, "abc", ProductOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAPI))
		assert.Contains(t, err.Error(), "no product with this id")
	})

	t.Run("unexpected shape", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[1, 2, 3]`)
		})

		_, err := client.GetProduct(ctx, "abc", ProductOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAPI))
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.GetProduct(ctx, "abc", ProductOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrProtocol))
		assert.Contains(t, err.Error(), "status 500")
	})
}

func TestGetProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps input order", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/product/")
			id = strings.TrimSuffix(id, "/gtin")
			fmt.Fprintf(w, `{"id":%q,"title":"Title %s"}`, id, id)
		}, WithConcurrency(3))

		ids := []string{"1", "2", "3", "4", "5", "6", "7"}
		products, err := client.GetProducts(ctx, ids, ProductOptions{IDType: IDTypeGTIN})
		require.NoError(t, err)
		require.Len(t, products, len(ids))
		for i, id := range ids {
			assert.Equal(t, id, products[i].ID)
		}
	})

	t.Run("first failure aborts", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/product/bad" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, `{"id":"ok"}`)
		})

		products, err := client.GetProducts(ctx, []string{"a", "bad", "c"}, ProductOptions{})
		require.Error(t, err)
		assert.Nil(t, products)
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "product bad")
	})

	t.Run("empty input", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		products, err := client.GetProducts(ctx, nil, ProductOptions{})
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestGetCover(t *testing.T) {
	ctx := context.Background()
	image := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}

	t.Run("returns image bytes", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/cover/9783518368503/l", r.URL.Path)
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(image)
		})

		cover, err := client.GetCover(ctx, "9783518368503", CoverLarge)
		require.NoError(t, err)
		assert.Equal(t, image, cover.Data)
		assert.Equal(t, "image/jpeg", cover.ContentType)
	})

	t.Run("json error instead of image", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"error":"no_cover","error_description":"no cover available"}`)
		})

		_, err := client.GetCover(ctx, "x", CoverSmall)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAPI))
		assert.Contains(t, err.Error(), "no cover available")
	})

	t.Run("empty body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
		})

		_, err := client.GetCover(ctx, "x", CoverSmall)
		assert.True(t, errors.Is(err, ErrAPI))
	})

	t.Run("invalid size", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		_, err := client.GetCover(ctx, "x", "xl")
		assert.True(t, errors.Is(err, ErrArgument))
	})
}

func TestParseCoverSize(t *testing.T) {
	tests := []struct {
		input    string
		expected CoverSize
		wantErr  bool
	}{
		{"s", CoverSmall, false},
		{"small", CoverSmall, false},
		{"", CoverMedium, false},
		{"large", CoverLarge, false},
		{"huge", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			size, err := ParseCoverSize(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, size)
		})
	}
}

func TestGetMedia(t *testing.T) {
	ctx := context.Background()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/abc/mediafiles", r.URL.Path)
		switch r.URL.Query().Get("type") {
		case "audio":
			fmt.Fprint(w, `[{"id":"m2","type":"audio","mimeType":"audio/mpeg"}]`)
		case "":
			fmt.Fprint(w, `[{"id":"m1","type":"image"},{"id":"m2","type":"audio"}]`)
		default:
			fmt.Fprint(w, `null`)
		}
	})

	files, err := client.GetMedia(ctx, "abc", MediaAll)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = client.GetMedia(ctx, "abc", MediaAudio)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "audio/mpeg", files[0].MimeType)

	files, err = client.GetMedia(ctx, "abc", MediaVideo)
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)

	_, err = client.GetMedia(ctx, "abc", "hologram")
	assert.True(t, errors.Is(err, ErrArgument))
}

func TestSearchIndex(t *testing.T) {
	ctx := context.Background()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/index", r.URL.Path)
		assert.Equal(t, "person", r.URL.Query().Get("field"))
		assert.Equal(t, "Hesse", r.URL.Query().Get("value"))
		fmt.Fprint(w, `[{"value":"Hesse, Hermann","count":412}]`)
	})

	entries, err := client.SearchIndex(ctx, IndexPerson, "Hesse")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 412, entries[0].Count)

	_, err = client.SearchIndex(ctx, "isbn", "x")
	assert.True(t, errors.Is(err, ErrArgument))

	_, err = client.SearchIndex(ctx, IndexPerson, "")
	assert.True(t, errors.Is(err, ErrArgument))
}

func TestGetPublisher(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.GetPublisher(context.Background(), "5108480")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	_, err = client.GetPublisher(context.Background(), "")
	assert.True(t, errors.Is(err, ErrArgument))
}

func TestProductJSON(t *testing.T) {
	raw := `{"id":"abc","title":"Demian","subtitle":"Die Geschichte von Emil Sinclairs Jugend","extra":{"a":1}}`

	var p Product
	require.NoError(t, p.UnmarshalJSON([]byte(raw)))
	assert.Equal(t, "Demian: Die Geschichte von Emil Sinclairs Jugend", p.DisplayTitle())

	out, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))

	bare := Product{ID: "x", Title: "y"}
	out, err = bare.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","title":"y"}`, string(out))
}

func TestGetSendsNoBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		fmt.Fprint(w, `{"mvbId":"1","name":"x"}`)
	})

	_, err := client.GetPublisher(context.Background(), "1")
	require.NoError(t, err)
}

func TestTransportErrors(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		baseURL := server.URL
		server.Close()

		client, err := NewClientWithToken("test-token", zerolog.Nop(), WithBaseURL(baseURL))
		require.NoError(t, err)

		_, err = client.GetPublisher(context.Background(), "5108")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTransport)
		assert.NotErrorIs(t, err, ErrProtocol)

		var vErr *Error
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "publisher", vErr.Op)
		assert.NotNil(t, vErr.Err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Search(ctx, SearchRequest{Query: "x"})
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rate limiter wait", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}, WithRateLimit(1, 1))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.GetProduct(ctx, "9783518368503", ProductOptions{})
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, err.Error(), "rate limiter")
	})
}
