package graph

import (
	"errors"
	"log"
	"net"
	"net/rpc"

	"gander/util"
)

type ClientConfig struct {
	ClientId   string
	CoordAddr  string
	ClientAddr string
}

// GraphClient submits queries to a coordinator over RPC and delivers
// results asynchronously on a notify channel.
type GraphClient struct {
	clientId    string
	coordClient *rpc.Client
	coordConn   *net.TCPConn
	notifyCh    chan QueryResult
}

func NewClient() *GraphClient {
	return &GraphClient{}
}

// SendQuery validates the query shape and dispatches it without blocking;
// the result arrives on the channel returned by Start.
func (c *GraphClient) SendQuery(query Query) error {
	switch query.QueryType {
	case BREADTH_FIRST_SEARCH:
		if len(query.Nodes) != 1 {
			return errors.New("incorrect number of vertices in the query")
		}
	case SHORTEST_PATH:
		if len(query.Nodes) != 1 && len(query.Nodes) != 2 {
			return errors.New("incorrect number of vertices in the query")
		}
	case BETWEENNESS:
		// any number of sources, including none for the exact scores
	default:
		return errors.New("unknown query type")
	}

	query.ClientId = c.clientId
	log.Printf("SendQuery: query is queued up to be sent.")
	go c.doQuery(query)
	return nil
}

func (c *GraphClient) doQuery(query Query) {
	var result QueryResult
	err := c.coordClient.Call("Coord.StartQuery", query, &result)
	if err != nil {
		log.Printf("doQuery: error calling Coord.StartQuery: %v\n", err)
		result.Query = query
		result.Error = err.Error()
	}

	if result.Error != "" {
		log.Printf("doQuery: received error: %v\n", result.Error)
	}

	c.notifyCh <- result
}

// Start connects to the coordinator. If there is an issue with connecting,
// an appropriate err value is returned; otherwise err is nil.
func (c *GraphClient) Start(
	clientId string, coordAddr string, clientAddr string,
) (chan QueryResult, error) {

	c.clientId = clientId

	var err error
	lAddr := util.IPEmptyPortOnly(clientAddr)
	c.coordConn, err = util.DialTCPCustom(lAddr, coordAddr)
	if err != nil {
		return nil, err
	}

	c.coordClient = rpc.NewClient(c.coordConn)
	c.notifyCh = make(chan QueryResult, 1)

	return c.notifyCh, nil
}

func (c *GraphClient) Stop() {
	c.coordClient.Close()
	c.coordConn.Close()
	close(c.notifyCh)
}
