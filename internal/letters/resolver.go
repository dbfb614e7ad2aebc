package letters

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/eletters/backend/internal/models"
)

// SignedURLTTL is how long a resolved asset URL stays valid. URLs are not
// cached beyond this window; callers re-resolve on each render cycle.
const SignedURLTTL = 3600 * time.Second

// ResolveAssetURLs converts every stored asset reference of a letter into a
// short-lived signed URL, concurrently and independently per asset. An
// asset whose URL cannot be generated is logged and left out of the map, so
// one bad asset never blocks the rest. A letter without assets yields an
// empty map.
func (s *Service) ResolveAssetURLs(ctx context.Context, letter *models.Letter) map[string]string {
	type asset struct {
		bucket string
		path   string
	}

	assets := make([]asset, 0, len(letter.Attachments)+1)
	for _, a := range letter.Attachments {
		assets = append(assets, asset{bucket: s.attachmentsBucket, path: a.Path})
	}
	if letter.VoicePath != "" {
		assets = append(assets, asset{bucket: s.voiceBucket, path: letter.VoicePath})
	}

	urls := make([]string, len(assets))

	var wg sync.WaitGroup
	for i, a := range assets {
		wg.Add(1)
		go func(i int, a asset) {
			defer wg.Done()

			url, err := s.blobs.PresignGet(ctx, a.bucket, a.path, SignedURLTTL)
			if err != nil {
				log.Printf("Resolver: could not sign url for %s: %v", a.path, err)
				return
			}
			urls[i] = url
		}(i, a)
	}
	wg.Wait()

	resolved := make(map[string]string, len(assets))
	for i, a := range assets {
		if urls[i] != "" {
			resolved[a.path] = urls[i]
		}
	}
	return resolved
}
