package galaxy

import (
	"context"
	"fmt"
	"net/url"
)

// FolderContents lists the files and folders directly inside a folder.
func (c *httpClient) FolderContents(ctx context.Context, folderID string) ([]FolderItem, error) {
	var resp struct {
		Contents []FolderItem `json:"folder_contents"`
	}

	path := fmt.Sprintf("/api/folders/%s/contents", url.PathEscape(folderID))
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Contents, nil
}
