// Package s3 provides a blobstore.Store for Amazon S3.
//
// Blobs are opened with HeadObject and read with ranged GetObject requests,
// so a chunk reader only transfers the footer and the pages it decodes.
// Writes go through the S3 transfer manager, which switches to multipart
// uploads for large chunk files.
package s3
