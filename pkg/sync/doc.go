/*
Package sync mirrors extracted dataset archives into Galaxy data libraries.

Each dataset listed in the manifest has a directory of the same name under the
source directory, and a data library of the same name on the Galaxy server.

A run has two phases:
 1. Selection -- Each dataset's transfer time from the manifest is compared to
    the creation time of its library. Datasets without a library, or that were
    transferred after their library was created, are synced. The others are
    stale and skipped.
 2. Mirroring -- For each selected dataset, the library is created if it
    doesn't exist, every local directory is created as a library folder unless
    a folder with that path already exists, and every file is imported from
    the Galaxy server's view of the source directory. A file that's already in
    the folder is purged before it's imported again.

Files whose names start with a dot are never imported. Directories are
always mirrored, even when empty.

All calls to the server are sequential, and a failure stops the run. A
partially synced dataset looks stale afterwards because its library is newer
than its transfer time, so it has to be resynced with Options.Force. That's
safe since existing folders are reused and existing files are replaced.
*/
package sync
