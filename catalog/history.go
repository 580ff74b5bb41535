package catalog

import (
	"context"

	"github.com/tomecat/tomecat"
)

func readKey(seriesID, unitID string) string {
	return readKeyPrefix + seriesID + "/" + unitID
}

// IsRead reports whether the unit of a series has been read.
func (c *Catalog) IsRead(ctx context.Context, seriesID, unitID string) (bool, error) {
	_, err := c.kv.Get(ctx, readKey(seriesID, unitID))
	if err != nil {
		if tomecat.ErrorCode(err) == tomecat.ENOTFOUND {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ToggleRead flips the read state of a series unit.
func (c *Catalog) ToggleRead(ctx context.Context, seriesID, unitID string) error {
	c.mu.Lock()
	err := func() error {
		read, err := c.IsRead(ctx, seriesID, unitID)
		if err != nil {
			return err
		}
		if read {
			return c.kv.Delete(ctx, readKey(seriesID, unitID))
		}
		return c.kv.Set(ctx, readKey(seriesID, unitID), []byte("1"), 0)
	}()
	c.mu.Unlock()

	if err != nil {
		return err
	}

	c.notify(tomecat.Change{Op: tomecat.ChangeReadHistory, ItemID: seriesID})
	return nil
}
