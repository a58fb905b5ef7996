package podds

/**
* Podds is a golang library for estimating the results of EFL football matches
 */
const (
	poddsAssetsPath = "/Users/richard/mcp/.podds/"
	poddsCachePath  = poddsAssetsPath + "cache/"
	poddsDbPath     = poddsAssetsPath + "podds.db"
)
