package game

import (
	"fmt"

	"github.com/bronald/uhcd/internal/config"
)

// This file holds the literal world-mutation payloads: lobby construction,
// the death room and its command-block wiring, and the begin sequence. The
// core does not interpret these commands; they are opaque to everything but
// the game server.

// prepareWorldCommands sets the pre-match game rules and clears any
// scoreboard objectives left over from an earlier match
func prepareWorldCommands(x, z int) []string {
	return []string{
		"gamerule doDaylightCycle false",
		"gamerule commandBlockOutput false",
		"gamerule logAdminCommands false",
		"gamerule naturalRegeneration false",
		"time set 6000",
		fmt.Sprintf("worldborder center %d %d", x, z),
		"scoreboard objectives remove dead",
		"scoreboard objectives remove spectating",
		"scoreboard objectives remove indeathroom",
		"scoreboard objectives add health health",
		"scoreboard objectives setdisplay list health",
		"scoreboard objectives add spectating dummy",
	}
}

// buildLobbyCommands builds the glass-roofed sky lobby above the map centre,
// its decorative armour stand and the command blocks that keep everyone in
// it regenerated and unable to fight
func buildLobbyCommands(x, z int) []string {
	return []string{
		fmt.Sprintf("fill %d 251 %d %d 255 %d minecraft:barrier", x-9, z-9, x+8, z+8),
		fmt.Sprintf("fill %d 255 %d %d 255 %d minecraft:stained_glass 15", x-9, z-9, x+8, z+8),
		fmt.Sprintf("fill %d 253 %d %d 255 %d minecraft:air", x-8, z-8, x+7, z+7),
		fmt.Sprintf("setblock %d 252 %d minecraft:end_portal_frame 4", x, z),
		fmt.Sprintf("setblock %d 253 %d minecraft:stained_glass_pane 3", x, z),
		fmt.Sprintf("setworldspawn %d 253 %d", x, z),
		"kill @e[tag=Origin]",
		fmt.Sprintf(`summon ArmorStand %d 252 %d {DisabledSlots:2039567,Invisible:1,CustomName:"UHC Lobby",CustomNameVisible:1,HandItems:[{id:iron_sword},{id:iron_sword}],ArmorItems:[{},{},{},{id:diamond_block,Count:1,tag:{ench:[{id:0,lvl:1}]}}],Invulnerable:1}`, x, z),
		fmt.Sprintf("scoreboard players tag @e[type=ArmorStand,x=%d,y=252,z=%d,c=1] add Origin", x, z),
		"entitydata @e[tag=Origin] {Pose:{LeftArm:[0f,-90f,-60f],RightArm:[0f,90f,60f],Head:[0f,45f,0f]}}",
		fmt.Sprintf("fill %d 0 %d %d 2 %d minecraft:bedrock", x, z, x+15, z+15),
		fmt.Sprintf(`setblock %d 1 %d minecraft:repeating_command_block 3 replace {auto:1b,Command:"effect @a minecraft:regeneration 5 20 true"}`, x+1, z+1),
		fmt.Sprintf(`setblock %d 1 %d minecraft:chain_command_block 3 replace {auto:1b,Command:"effect @a minecraft:saturation 5 20 true"}`, x+1, z+2),
		fmt.Sprintf(`setblock %d 1 %d minecraft:chain_command_block 3 replace {auto:1b,Command:"effect @a minecraft:weakness 1 20 true"}`, x+1, z+3),
		fmt.Sprintf(`setblock %d 1 %d minecraft:repeating_command_block 3 replace {auto:1b,Command:"tp @e[tag=Origin] ~ ~ ~ ~10 ~"}`, x+3, z+1),
		fmt.Sprintf(`setblock %d 1 %d minecraft:chain_command_block 3 replace {auto:1b,Command:"weather clear"}`, x+3, z+2),
		"gamemode 2 @a",
		fmt.Sprintf("spreadplayers %d %d 0 6 true @a", x, z),
	}
}

// destroyLobbyCommands removes the sky lobby and re-seals the command blocks
func destroyLobbyCommands(x, z int) []string {
	return []string{
		"kill @e[tag=Origin]",
		fmt.Sprintf("fill %d 251 %d %d 255 %d minecraft:air", x-9, z-9, x+8, z+8),
		fmt.Sprintf("fill %d 0 %d %d 2 %d minecraft:bedrock", x, z, x+15, z+15),
	}
}

// deathRoomCommands builds the room eliminated players wake up in, moves
// everyone out of the lobby and wires the command blocks that catch dead
// players, keep them fed and drop them to adventure mode
func deathRoomCommands(x, z int) []string {
	return []string{
		fmt.Sprintf("fill %d 3 %d %d 7 %d minecraft:bedrock", x, z, x+15, z+15),
		fmt.Sprintf("fill %d 5 %d %d 6 %d minecraft:air", x+1, z+1, x+14, z+14),
		fmt.Sprintf("fill %d 4 %d %d 4 %d minecraft:carpet", x+1, z+1, x+14, z+14),
		fmt.Sprintf("fill %d 3 %d %d 3 %d minecraft:glowstone", x+1, z+1, x+14, z+14),
		fmt.Sprintf("tp @a %d 4 %d", x+8, z+8),
		"clear @a",
		"kill @e[tag=DeathRoom]",
		fmt.Sprintf(`summon ArmorStand %d 3 %d {DisabledSlots:2039567,Invisible:1,CustomName:"Death Room",CustomNameVisible:1,ArmorItems:[{},{},{},{id:redstone_block,Count:1,tag:{ench:[{id:0,lvl:1}]}}],Invulnerable:1}`, x+8, z+8),
		fmt.Sprintf("scoreboard players tag @e[type=ArmorStand,x=%d,y=3,z=%d,c=1] add DeathRoom", x+8, z+8),
		"scoreboard objectives add dead stat.deaths",
		"scoreboard objectives add indeathroom dummy",
		fmt.Sprintf(`setblock %d 1 %d minecraft:repeating_command_block 3 replace {auto:1b,Command:"scoreboard players set @a indeathroom 0"}`, x+1, z+1),
		fmt.Sprintf(`setblock %d 1 %d minecraft:chain_command_block 3 replace {auto:1b,Command:"scoreboard players set @e[type=Player,x=%d,y=4,z=%d,dx=14,dy=3,dz=14] indeathroom 1"}`, x+1, z+2, x+1, z+1),
		fmt.Sprintf(`setblock %d 1 %d minecraft:chain_command_block 3 replace {auto:1b,Command:"tp @e[type=Player,score_indeathroom=0,score_dead_min=1] %d 4 %d"}`, x+1, z+3, x+8, z+8),
		fmt.Sprintf(`setblock %d 1 %d minecraft:chain_command_block 3 replace {auto:1b,Command:"effect @a[score_indeathroom_min=1] minecraft:regeneration 5 20 true"}`, x+1, z+4),
		fmt.Sprintf(`setblock %d 1 %d minecraft:chain_command_block 3 replace {auto:1b,Command:"effect @a[score_indeathroom_min=1] minecraft:saturation 5 20 true"}`, x+1, z+5),
		fmt.Sprintf(`setblock %d 1 %d minecraft:chain_command_block 3 replace {auto:1b,Command:"effect @a[score_indeathroom_min=1] minecraft:weakness 1 20 true"}`, x+1, z+6),
		fmt.Sprintf(`setblock %d 1 %d minecraft:chain_command_block 3 replace {auto:1b,Command:"gamemode 2 @a[score_dead_min=1,m=!2]"}`, x+1, z+7),
		fmt.Sprintf(`setblock %d 1 %d minecraft:repeating_command_block 3 replace {auto:1b,Command:"tp @e[tag=DeathRoom] ~ ~ ~ ~5 ~"}`, x+3, z+1),
		fmt.Sprintf(`setblock %d 1 %d minecraft:chain_command_block 3 replace {auto:1b,Command:"execute @e[tag=DeathRoom] ~ ~ ~ spawnpoint @a ~ ~1 ~"}`, x+3, z+2),
		fmt.Sprintf(`setblock %d 1 %d minecraft:repeating_command_block 3 replace {auto:1b,Command:"effect @a[score_spectating_min=1] minecraft:night_vision 20 20 true"}`, x+5, z+1),
	}
}

// spreadCommands scatters survivors across the playing field and restores
// the daylight cycle and game modes
func spreadCommands(g config.GameConfig) []string {
	radius := float64(g.WorldBorder.Start-1) * 0.4
	maxRange := float64(g.WorldBorder.Start-1) / 2
	return []string{
		fmt.Sprintf("spreadplayers %d %d %.1f %.1f true @a[score_spectating=0]",
			g.CentreX, g.CentreZ, radius, maxRange),
		"gamerule doDaylightCycle true",
		"gamemode 0 @a[score_spectating=0]",
		"gamemode 3 @a[score_spectating_min=1]",
		"tp @a[score_spectating_min=1] ~ 200 ~",
	}
}
