// Package db provides the database engine: a pgx connection pool with
// pre-ping on acquire, request-scoped sessions, and embedded schema migrations.
//
// Example usage:
//
//	engine, err := db.New(ctx, cfg.Database, log)
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//
//	err = engine.WithSession(ctx, func(ctx context.Context, s ports.Session) error {
//	    _, err := s.Exec(ctx, "UPDATE items SET quantity = quantity - 1 WHERE id = $1", id)
//	    return err
//	})
package db
