/*
Package dirsync copies files from a local directory into an S3 bucket when
the bucket does not already hold them.

A sync walks the directory, lists the bucket, and uploads every file whose key
is missing, one at a time and in key order. Keys are paths relative to the
directory's parent, so syncing /data/feed stores /data/feed/sub/b.csv as
feed/sub/b.csv. Objects already in the bucket are never overwritten or
deleted; running the same sync again uploads nothing.

	conn, err := dirsync.NewConnection(ctx, dirsync.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	})
	if err != nil {
		return err
	}
	synchronizer, err := dirsync.NewSynchronizer(conn)
	if err != nil {
		return err
	}
	result, err := synchronizer.Sync(ctx, "/my/local/dir", "s3-bucket-name")
*/
package dirsync
