// Package vlb provides a client for the VLB bibliographic data API.
//
// VLB is the German book trade's catalog of available titles. This package
// authenticates against the API, runs paginated product searches, fetches
// single products, covers, media files, index entries and publishers, and
// builds boolean search queries from untrusted input.
//
// # Usage
//
// Log in with your VLB credentials, or pass a pre-issued token:
//
//	logger := zerolog.New(os.Stderr)
//	client, err := vlb.NewClient(ctx, "user", "secret", logger,
//		vlb.WithTimeout(30*time.Second),
//		vlb.WithRateLimit(5, 1),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Build a query with placeholders; arguments have their boolean operators
// quoted so they are searched literally:
//
//	query, err := vlb.BuildQuery("ti={} und au={}", title, author)
//
// Search and page through the results:
//
//	session, err := client.Search(ctx, vlb.SearchRequest{Query: query, Size: 50})
//	for {
//		for _, p := range session.Items() {
//			fmt.Println(p.Identifier(), p.DisplayTitle())
//		}
//		if !session.HasNext() {
//			break
//		}
//		if err := session.Next(ctx); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Response format
//
// VLB serves a short and a long product representation. The format is chosen
// per request through SearchRequest.Format or ProductOptions.Format; the
// client itself holds no per-call header state and is safe for concurrent use.
//
// # Error Handling
//
// Every operation returns *Error, classified by Kind, including connection
// and rate limiter failures (KindTransport, with the cause in Err). Use
// errors.Is with the package sentinels:
//
//	if errors.Is(err, vlb.ErrExhausted) {
//		// last page reached
//	}
//	if errors.Is(err, vlb.ErrTransport) {
//		// no response; errors.Is(err, context.DeadlineExceeded) also works
//	}
//	if vlb.IsUnauthorized(err) {
//		// token expired or credentials rejected
//	}
//
// Nothing is retried; the first failure is returned to the caller.
package vlb
