package bluesky

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	lexutil "github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"
	"github.com/labstack/gommon/log"
)

const DefaultPDSHost = "https://bsky.social"

// RecentPostsLimit bounds how far back duplicate suppression looks.
const RecentPostsLimit = 50

type Credentials struct {
	Identifier string
	Password   string
}

type Client struct {
	xrpc *xrpc.Client
}

func ClientFromCredentials(ctx context.Context, host string, creds *Credentials) (*Client, error) {
	auth, err := atproto.ServerCreateSession(ctx, &xrpc.Client{Host: host}, &atproto.ServerCreateSession_Input{
		Identifier: creds.Identifier,
		Password:   creds.Password,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	xrpcClient := &xrpc.Client{
		Host: host,
		Auth: &xrpc.AuthInfo{
			AccessJwt:  auth.AccessJwt,
			RefreshJwt: auth.RefreshJwt,
			Handle:     auth.Handle,
			Did:        auth.Did,
		},
		Client: http.DefaultClient,
	}

	return &Client{xrpc: xrpcClient}, nil
}

// Recent returns the text of the newest posts on the account's own timeline,
// newest first. This is the history the publisher checks before sending an
// announcement.
func (c *Client) Recent(ctx context.Context) ([]string, error) {
	feed, err := bsky.FeedGetAuthorFeed(ctx, c.xrpc, c.xrpc.Auth.Did, "", "posts_with_replies", false, RecentPostsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get author feed: %w", err)
	}

	var texts []string
	for _, item := range feed.Feed {
		if item.Post == nil || item.Post.Record == nil {
			continue
		}
		if post, ok := item.Post.Record.Val.(*bsky.FeedPost); ok {
			texts = append(texts, post.Text)
		}
	}
	return texts, nil
}

// Post writes a post record to the account's timeline. When image is non-nil
// it is uploaded first and embedded in the post.
func (c *Client) Post(ctx context.Context, text string, image io.Reader) error {
	record := &bsky.FeedPost{
		Text:      text,
		CreatedAt: FormatTime(time.Now().UTC()),
	}

	if image != nil {
		blob, err := c.UploadBlob(ctx, image)
		if err != nil {
			return err
		}
		record.Embed = &bsky.FeedPost_Embed{
			EmbedImages: &bsky.EmbedImages{
				Images: []*bsky.EmbedImages_Image{
					{Alt: "", Image: blob},
				},
			},
		}
	}

	_, err := atproto.RepoCreateRecord(ctx, c.xrpc, &atproto.RepoCreateRecord_Input{
		Collection: "app.bsky.feed.post",
		Repo:       c.xrpc.Auth.Did,
		Record: &lexutil.LexiconTypeDecoder{
			Val: record,
		},
	})
	if err != nil {
		// Display the entire http response error so we can see what went wrong
		log.Errorf("failed to create post record: %s", err)
		return fmt.Errorf("failed to create post record: %w", err)
	}
	return nil
}

// UploadBlob uploads a blob (binary data like an image) to the Bluesky network.
// It takes a context and an io.Reader containing the blob data.
// Returns the uploaded blob's metadata or an error if the upload fails.
func (c *Client) UploadBlob(ctx context.Context, r io.Reader) (*lexutil.LexBlob, error) {
	resp, err := atproto.RepoUploadBlob(ctx, c.xrpc, r)
	if err != nil {
		return nil, fmt.Errorf("failed to upload blob: %w", err)
	}
	return resp.Blob, nil
}

// FormatTime formats a time.Time into the format expected by AT Protocol
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000Z")
}
