package cache

import "fmt"

const cacheImage = "%s:%s"

func constructKey(ownerID string, imageName string) string {
	return fmt.Sprintf(cacheImage, ownerID, imageName)
}
