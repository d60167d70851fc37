package dynamodb

import "fmt"

// Single-table key layout. Every item lives under the owning user's
// partition; posts are additionally reachable by ID through the
// PostIndex GSI.
//
//	USER#<id>       PROFILE               user profile
//	USER#<id>       FOLLOWING#<other>     forward edge
//	USER#<id>       FOLLOWER#<other>      reverse edge
//	USER#<author>   POST#<postID>         post, GSI1PK=POST#<postID>
const (
	skProfile        = "PROFILE"
	skFollowingPref  = "FOLLOWING#"
	skFollowerPref   = "FOLLOWER#"
	skPostPref       = "POST#"
	gsiPostMetadata  = "METADATA"
	entityTypeUser   = "USER"
	entityTypeFollow = "FOLLOW"
	entityTypePost   = "POST"
)

func userPK(userID string) string {
	return fmt.Sprintf("USER#%s", userID)
}

func followingSK(followeeID string) string {
	return skFollowingPref + followeeID
}

func followerSK(followerID string) string {
	return skFollowerPref + followerID
}

func postSK(postID string) string {
	return skPostPref + postID
}

func postGSIPK(postID string) string {
	return skPostPref + postID
}
