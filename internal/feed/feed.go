package feed

import (
	"context"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmorgan81/imagebot/internal/log"
	"github.com/gorilla/feeds"
	"github.com/samber/do"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const Name = "feed.xml"

var imageExts = []string{".png", ".jpeg", ".jpg", ".gif", ".webp"}

// Entry is one stored image as it appears in the feed.
type Entry struct {
	Key     string
	Prompt  string
	Updated time.Time
}

func IsImage(key string) bool {
	return lo.Contains(imageExts, strings.ToLower(path.Ext(key)))
}

// Build renders entries as RSS, newest first, linking each entry under site.
func Build(site string, entries []Entry) ([]byte, error) {
	feed := feeds.Feed{
		Title:       "imagebot",
		Description: "AI generated images",
		Link:        &feeds.Link{Href: site},
		Updated:     time.Now(),
	}
	for _, e := range entries {
		feed.Add(&feeds.Item{
			Title:   e.Prompt,
			Link:    &feeds.Link{Href: strings.TrimSuffix(site, "/") + "/" + e.Key},
			Id:      e.Key,
			Updated: e.Updated,
		})
	}
	feed.Sort(func(a, b *feeds.Item) bool {
		return a.Updated.After(b.Updated)
	})

	rss, err := feed.ToRss()
	return []byte(rss), err
}

type Generator struct {
	client *s3.Client
	bucket string
	site   string
}

func NewS3Generator(i *do.Injector) (*Generator, error) {
	return &Generator{
		client: do.MustInvoke[*s3.Client](i),
		bucket: do.MustInvokeNamed[string](i, "bucket"),
		site:   do.MustInvokeNamed[string](i, "site"),
	}, nil
}

func (g *Generator) Generate(ctx context.Context) ([]byte, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("feed").With("bucket", g.bucket)
	log.Info("generating rss feed")

	var (
		mu      sync.Mutex
		entries []Entry
	)

	pager := s3.NewListObjectsV2Paginator(g.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(g.bucket),
	})

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(16)
	var listErr error
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			listErr = err
			break
		}

		objs := lo.Filter(page.Contents, func(o s3types.Object, _ int) bool {
			return IsImage(aws.ToString(o.Key))
		})
		for _, obj := range objs {
			obj := obj
			group.Go(func() error {
				out, err := g.client.HeadObject(gctx, &s3.HeadObjectInput{
					Bucket: aws.String(g.bucket),
					Key:    obj.Key,
				})
				if err != nil {
					return err
				}

				mu.Lock()
				defer mu.Unlock()
				entries = append(entries, Entry{
					Key:     aws.ToString(obj.Key),
					Prompt:  out.Metadata["prompt"],
					Updated: aws.ToTime(out.LastModified),
				})
				return nil
			})
		}
	}

	// Head requests already started must finish before returning.
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if listErr != nil {
		return nil, listErr
	}

	log.Info("collected feed entries", "count", len(entries))
	return Build(g.site, entries)
}
