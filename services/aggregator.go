package services

import (
	"log"
	"time"

	"xanddash/models"
)

// DataAggregator derives network-wide statistics from the poller's node list.
type DataAggregator struct {
	poller *NodePoller
}

func NewDataAggregator(poller *NodePoller) *DataAggregator {
	return &DataAggregator{poller: poller}
}

func (da *DataAggregator) Aggregate() models.NetworkStats {
	nodes := da.poller.Nodes()

	aggr := models.NetworkStats{
		TotalNodes:  len(nodes),
		LastUpdated: time.Now(),
	}

	if len(nodes) == 0 {
		log.Println("No nodes available for aggregation")
		return aggr
	}

	var sumUptime, sumLatency, sumPerformance float64
	var countPerformance int

	for _, node := range nodes {
		switch node.Status {
		case models.StatusActive:
			aggr.ActiveNodes++
		case models.StatusWarning:
			aggr.WarningNodes++
		case models.StatusInactive:
			aggr.InactiveNodes++
		}

		aggr.TotalStorage += float64(node.StorageCapacity) / 1e15
		aggr.UsedStorage += float64(node.StorageUsed) / 1e15
		aggr.TotalStake += node.Stake
		aggr.TotalCredits += node.Credits

		sumUptime += float64(node.Uptime)
		sumLatency += float64(node.Latency)
		if node.Performance > 0 {
			sumPerformance += node.Performance
			countPerformance++
		}
	}

	aggr.AverageUptime = sumUptime / float64(len(nodes))
	aggr.AverageLatency = sumLatency / float64(len(nodes))
	if countPerformance > 0 {
		aggr.AveragePerformance = sumPerformance / float64(countPerformance)
	}

	// Network health weighs the active ratio heavily, topped up by average
	// performance, capped at 100
	activeRatio := float64(aggr.ActiveNodes) / float64(aggr.TotalNodes)
	aggr.NetworkHealth = activeRatio*80 + aggr.AveragePerformance*0.2
	if aggr.NetworkHealth > 100 {
		aggr.NetworkHealth = 100
	}

	log.Printf("Aggregated %d nodes (Active: %d, Warning: %d, Inactive: %d). Health: %.2f%%. Storage: %.2f/%.2f PB",
		len(nodes), aggr.ActiveNodes, aggr.WarningNodes, aggr.InactiveNodes,
		aggr.NetworkHealth, aggr.UsedStorage, aggr.TotalStorage)

	return aggr
}
