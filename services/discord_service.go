package services

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordBotService delivers node-status notifications to a Discord channel.
// Without a token or channel id it stays disabled and every send is a no-op.
type DiscordBotService struct {
	session   *discordgo.Session
	channelID string
	enabled   bool
}

func NewDiscordBotService(token string, channelID string) (*DiscordBotService, error) {
	if token == "" {
		log.Println("Discord bot token not provided, Discord notifications disabled")
		return &DiscordBotService{enabled: false}, nil
	}
	if channelID == "" {
		log.Println("Discord channel ID not provided, Discord notifications disabled")
		return &DiscordBotService{enabled: false}, nil
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord connection: %w", err)
	}

	log.Printf("✓ Discord bot connected (channel: %s)", channelID)
	return &DiscordBotService{
		session:   session,
		channelID: channelID,
		enabled:   true,
	}, nil
}

func (d *DiscordBotService) Enabled() bool {
	return d != nil && d.enabled
}

// NotifyStatusChange posts an embed describing a node status transition.
func (d *DiscordBotService) NotifyStatusChange(nodeID, nodeName, from, to string) error {
	if !d.Enabled() {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🚨 pNode status change",
		Description: fmt.Sprintf("**%s** went from `%s` to `%s`", nodeName, from, to),
		Color:       statusColor(to),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Node", Value: nodeID, Inline: true},
			{Name: "Status", Value: to, Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	_, err := d.session.ChannelMessageSendEmbed(d.channelID, embed)
	return err
}

func statusColor(status string) int {
	switch status {
	case "active":
		return 3066993 // Green
	case "warning":
		return 15844367 // Gold
	case "inactive":
		return 15158332 // Red
	default:
		return 3447003 // Blue
	}
}

func (d *DiscordBotService) Close() {
	if d.Enabled() && d.session != nil {
		log.Println("Closing Discord bot connection...")
		d.session.Close()
	}
}
